package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partysnap/partysnap-backend/pkg/db/models"
	pkgerrors "github.com/partysnap/partysnap-backend/pkg/errors"
)

// LineItemDTO is one charge line on an invoice.
type LineItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceDTO is the parent-facing view of an invoice.
type InvoiceDTO struct {
	ID        uuid.UUID       `json:"id"`
	PartyID   uuid.UUID       `json:"party_id"`
	EnquiryID uuid.UUID       `json:"enquiry_id"`
	Number    string          `json:"number"`
	Total     decimal.Decimal `json:"total"`
	LineItems []LineItemDTO   `json:"line_items"`
	IssuedAt  time.Time       `json:"issued_at"`
}

// Service raises and serves invoices for settled enquiries.
type Service interface {
	GenerateForEnquiry(ctx context.Context, enquiryID uuid.UUID) (*InvoiceDTO, error)
	Get(ctx context.Context, userID, invoiceID uuid.UUID) (*InvoiceDTO, error)
	ListForParty(ctx context.Context, userID, partyID uuid.UUID) ([]InvoiceDTO, error)
}

type invoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	FindByEnquiry(ctx context.Context, enquiryID uuid.UUID) (*models.Invoice, error)
	ListByParty(ctx context.Context, partyID uuid.UUID) ([]models.Invoice, error)
	CountIssuedInYear(ctx context.Context, year int) (int64, error)
}

type enquiryFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Enquiry, error)
}

type partyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Party, error)
}

type service struct {
	repo      invoiceRepository
	enquiries enquiryFinder
	parties   partyFinder
}

// ServiceParams wires Service dependencies.
type ServiceParams struct {
	Repo      invoiceRepository
	Enquiries enquiryFinder
	Parties   partyFinder
}

// NewService builds the invoice service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("invoice repository is required")
	}
	if params.Enquiries == nil {
		return nil, fmt.Errorf("enquiry repository is required")
	}
	if params.Parties == nil {
		return nil, fmt.Errorf("party repository is required")
	}
	return &service{repo: params.Repo, enquiries: params.Enquiries, parties: params.Parties}, nil
}

// GenerateForEnquiry raises the invoice once an enquiry settles. Repeated
// calls return the existing invoice.
func (s *service) GenerateForEnquiry(ctx context.Context, enquiryID uuid.UUID) (*InvoiceDTO, error) {
	if enquiryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "enquiry id is required")
	}
	enquiry, err := s.enquiries.FindByID(ctx, enquiryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load enquiry")
	}
	if enquiry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "enquiry not found")
	}
	if !enquiry.PaymentStatus.IsSettled() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "enquiry is not settled")
	}

	existing, err := s.repo.FindByEnquiry(ctx, enquiry.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoice")
	}
	if existing != nil {
		return fromModel(existing), nil
	}

	issuedAt := time.Now().UTC()
	number, err := s.nextNumber(ctx, issuedAt)
	if err != nil {
		return nil, err
	}

	lineItems, total := buildLines(enquiry)
	invoice := &models.Invoice{
		PartyID:   enquiry.PartyID,
		EnquiryID: enquiry.ID,
		Number:    number,
		Total:     total,
		LineItems: lineItems,
		IssuedAt:  issuedAt,
	}
	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create invoice")
	}
	return fromModel(invoice), nil
}

func (s *service) Get(ctx context.Context, userID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	if userID == uuid.Nil || invoiceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and invoice id are required")
	}
	invoice, err := s.repo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load invoice")
	}
	if invoice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
	}
	if err := s.ensureOwner(ctx, userID, invoice.PartyID); err != nil {
		return nil, err
	}
	return fromModel(invoice), nil
}

func (s *service) ListForParty(ctx context.Context, userID, partyID uuid.UUID) ([]InvoiceDTO, error) {
	if userID == uuid.Nil || partyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and party id are required")
	}
	if err := s.ensureOwner(ctx, userID, partyID); err != nil {
		return nil, err
	}
	invoices, err := s.repo.ListByParty(ctx, partyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list invoices")
	}
	dtos := make([]InvoiceDTO, 0, len(invoices))
	for i := range invoices {
		dtos = append(dtos, *fromModel(&invoices[i]))
	}
	return dtos, nil
}

func (s *service) ensureOwner(ctx context.Context, userID, partyID uuid.UUID) error {
	party, err := s.parties.FindByID(ctx, partyID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load party")
	}
	if party == nil || party.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
	}
	return nil
}

func (s *service) nextNumber(ctx context.Context, issuedAt time.Time) (string, error) {
	count, err := s.repo.CountIssuedInYear(ctx, issuedAt.Year())
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count invoices")
	}
	return fmt.Sprintf("PS-%d-%06d", issuedAt.Year(), count+1), nil
}

// buildLines turns the enquiry's settled price and add-ons into invoice
// lines. FinalPrice wins over QuotedPrice when both are set.
func buildLines(enquiry *models.Enquiry) ([]models.InvoiceLineItem, decimal.Decimal) {
	price := decimal.Zero
	switch {
	case enquiry.FinalPrice != nil:
		price = *enquiry.FinalPrice
	case enquiry.QuotedPrice != nil:
		price = *enquiry.QuotedPrice
	}

	lines := []models.InvoiceLineItem{{
		Description: fmt.Sprintf("%s booking", enquiry.Category.Label()),
		Amount:      price,
	}}
	total := price
	for _, addon := range enquiry.Addons {
		lines = append(lines, models.InvoiceLineItem{
			Description: addon.Name,
			Amount:      addon.Price,
		})
		total = total.Add(addon.Price)
	}
	return lines, total
}

func fromModel(invoice *models.Invoice) *InvoiceDTO {
	lines := make([]LineItemDTO, 0, len(invoice.LineItems))
	for _, line := range invoice.LineItems {
		lines = append(lines, LineItemDTO{
			ID:          line.ID,
			Description: line.Description,
			Amount:      line.Amount,
		})
	}
	return &InvoiceDTO{
		ID:        invoice.ID,
		PartyID:   invoice.PartyID,
		EnquiryID: invoice.EnquiryID,
		Number:    invoice.Number,
		Total:     invoice.Total,
		LineItems: lines,
		IssuedAt:  invoice.IssuedAt,
	}
}
