package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/proposal-builder/internal/calc"
	"github.com/nurpe/proposal-builder/internal/gate"
	"github.com/nurpe/proposal-builder/internal/model"
	"github.com/nurpe/proposal-builder/internal/store"
	"github.com/nurpe/proposal-builder/internal/wizard"
)

// PDFGenerator renders a complete proposal as a PDF document.
type PDFGenerator interface {
	Generate(p model.Proposal) ([]byte, error)
}

// SpreadsheetGenerator renders a complete proposal as a workbook.
type SpreadsheetGenerator interface {
	Generate(p model.Proposal) ([]byte, error)
}

// DocumentFormat selects the export backend.
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatXLSX DocumentFormat = "xlsx"
)

// ParseFormat maps a query value to a document format; empty means PDF.
func ParseFormat(raw string) (DocumentFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "pdf":
		return FormatPDF, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: unknown document format %q", ErrInvalidInput, raw)
	}
}

// Document is one generated export.
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Session couples one browsing session's store with its wizard controller.
// The controller step always starts at the first step on a new session, even
// when the draft itself was rehydrated.
type Session struct {
	ID     uuid.UUID
	Store  *store.Store
	Wizard *wizard.Controller
}

// Overview is the draft plus its derived values, as shown to every view.
type Overview struct {
	Proposal model.Proposal `json:"proposal"`
	Total    float64        `json:"total"`
	Complete bool           `json:"complete"`
}

// ProposalService owns the live sessions and orchestrates document
// generation behind the completeness gate.
type ProposalService struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*Session
	snapshots store.SnapshotRepository

	validator       *wizard.Validator
	pdf             PDFGenerator
	excel           SpreadsheetGenerator
	defaultCurrency string
	log             zerolog.Logger
}

func NewProposalService(
	snapshots store.SnapshotRepository,
	pdf PDFGenerator,
	excel SpreadsheetGenerator,
	defaultCurrency string,
	log zerolog.Logger,
) *ProposalService {
	return &ProposalService{
		sessions:        make(map[uuid.UUID]*Session),
		snapshots:       snapshots,
		validator:       wizard.NewValidator(),
		pdf:             pdf,
		excel:           excel,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// DefaultCurrency returns the currency used for fresh drafts.
func (s *ProposalService) DefaultCurrency() string {
	return s.defaultCurrency
}

// Session returns the live session for the given id, creating it (and
// rehydrating its draft from any stored snapshot) on first use.
func (s *ProposalService) Session(ctx context.Context, id uuid.UUID) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	st := store.New(ctx, id, s.snapshots, s.log)
	sess := &Session{
		ID:     id,
		Store:  st,
		Wizard: wizard.NewController(st, s.validator, s.defaultCurrency),
	}
	s.sessions[id] = sess
	return sess
}

// DropSession forgets the in-memory session state. The durable snapshot is
// untouched; a later Session call rehydrates from it.
func (s *ProposalService) DropSession(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Overview returns the draft with its grand total and completeness flag.
func (s *ProposalService) Overview(ctx context.Context, sessionID uuid.UUID) Overview {
	p := s.Session(ctx, sessionID).Store.Get()
	return Overview{
		Proposal: p,
		Total:    calc.Total(p.Components),
		Complete: gate.IsComplete(p),
	}
}

// GenerateDocument renders the session's draft in the requested format.
// Incomplete drafts fail with ErrIncomplete; the caller is expected to
// redirect back to the wizard rather than surface a failure.
func (s *ProposalService) GenerateDocument(ctx context.Context, sessionID uuid.UUID, format DocumentFormat) (*Document, error) {
	p := s.Session(ctx, sessionID).Store.Get()
	if !gate.IsComplete(p) {
		return nil, ErrIncomplete
	}

	switch format {
	case FormatPDF:
		content, err := s.pdf.Generate(p)
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return &Document{
			FileName:    buildFileName(p.ProjectName, "pdf"),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	case FormatXLSX:
		content, err := s.excel.Generate(p)
		if err != nil {
			return nil, fmt.Errorf("render xlsx: %w", err)
		}
		return &Document{
			FileName:    buildFileName(p.ProjectName, "xlsx"),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown document format %q", ErrInvalidInput, format)
	}
}

// buildFileName derives the export name deterministically from the project
// name: whitespace runs become dashes, then the fixed proposal suffix.
func buildFileName(projectName, ext string) string {
	name := strings.Join(strings.Fields(projectName), "-")
	if name == "" {
		return fmt.Sprintf("proposal.%s", ext)
	}
	return fmt.Sprintf("%s-proposal.%s", name, ext)
}
