package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the primary key when the caller has not set one.
// IDs are generated app-side so the same models work on Postgres and the
// SQLite databases the test suites run against.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// LeadStatus represents the pipeline status of a lead
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "NEW"
	LeadStatusContacted   LeadStatus = "CONTACTED"
	LeadStatusQualified   LeadStatus = "QUALIFIED"
	LeadStatusProposal    LeadStatus = "PROPOSAL"
	LeadStatusNegotiation LeadStatus = "NEGOTIATION"
	LeadStatusWon         LeadStatus = "WON"
	LeadStatusLost        LeadStatus = "LOST"
)

// Lead represents a sales prospect
type Lead struct {
	BaseModel
	LeadNumber     string      `gorm:"type:varchar(50);unique;index;column:lead_number"`
	CompanyName    string      `gorm:"type:varchar(255);not null;index;column:company_name"`
	ContactPerson  string      `gorm:"type:varchar(255);column:contact_person"`
	Email          string      `gorm:"type:varchar(255)"`
	Phone          string      `gorm:"type:varchar(50)"`
	Source         string      `gorm:"type:varchar(100)"`
	Status         LeadStatus  `gorm:"type:varchar(50);not null;default:'NEW';index"`
	ProjectManager string      `gorm:"type:varchar(255);column:project_manager"`
	SalesPerson    string      `gorm:"type:varchar(255);column:sales_person"`
	Notes          string      `gorm:"type:text"`
	CostSheets     []CostSheet `gorm:"foreignKey:LeadID"`
}

// CostSheetStatus represents the approval state of a cost sheet
type CostSheetStatus string

const (
	CostSheetStatusPending   CostSheetStatus = "PENDING"
	CostSheetStatusSubmitted CostSheetStatus = "SUBMITTED"
	CostSheetStatusApproved  CostSheetStatus = "APPROVED"
	CostSheetStatusRejected  CostSheetStatus = "REJECTED"
	// Reverted exists in historical data and filters; no transition
	// currently produces it.
	CostSheetStatusReverted CostSheetStatus = "REVERTED"
)

// IsValid checks if the CostSheetStatus is a valid enum value
func (s CostSheetStatus) IsValid() bool {
	switch s {
	case CostSheetStatusPending, CostSheetStatusSubmitted, CostSheetStatusApproved,
		CostSheetStatusRejected, CostSheetStatusReverted:
		return true
	}
	return false
}

// Editable reports whether a sheet in this status may still be modified
// or resubmitted.
func (s CostSheetStatus) Editable() bool {
	return s == CostSheetStatusPending || s == CostSheetStatusRejected
}

// CostSheet represents a priced proposal for a lead
type CostSheet struct {
	BaseModel
	SheetNumber         string               `gorm:"type:varchar(50);unique;index;column:sheet_number"`
	LeadID              *uuid.UUID           `gorm:"type:uuid;index;column:lead_id"`
	Lead                *Lead                `gorm:"foreignKey:LeadID"`
	CustomerName        string               `gorm:"type:varchar(255);not null;index;column:customer_name"`
	ProjectName         string               `gorm:"type:varchar(255);column:project_name"`
	ProjectManager      string               `gorm:"type:varchar(255);column:project_manager"`
	SalesPerson         string               `gorm:"type:varchar(255);column:sales_person"`
	Date                *time.Time           `gorm:"type:date"`
	Status              CostSheetStatus      `gorm:"type:varchar(50);not null;default:'PENDING';index"`
	Currency            string               `gorm:"type:varchar(3);not null;default:'USD'"`
	TotalCost           Amount               `gorm:"type:decimal(15,2);not null;default:0;column:total_cost"`
	TotalMargin         Amount               `gorm:"type:decimal(15,2);not null;default:0;column:total_margin"`
	TotalPrice          Amount               `gorm:"type:decimal(15,2);not null;default:0;column:total_price"`
	TotalMarginPct      Amount               `gorm:"type:decimal(8,2);not null;default:0;column:total_margin_pct"`
	Notes               string               `gorm:"type:text"`
	SubmittedBy         string               `gorm:"type:varchar(255);column:submitted_by"`
	SubmittedAt         *time.Time           `gorm:"column:submitted_at"`
	ReviewedBy          string               `gorm:"type:varchar(255);column:reviewed_by"`
	ReviewedAt          *time.Time           `gorm:"column:reviewed_at"`
	ReviewComments      string               `gorm:"type:text;column:review_comments"`
	LicenseItems        []LicenseItem        `gorm:"foreignKey:CostSheetID;constraint:OnDelete:CASCADE"`
	ImplementationItems []ImplementationItem `gorm:"foreignKey:CostSheetID;constraint:OnDelete:CASCADE"`
	SupportItems        []SupportItem        `gorm:"foreignKey:CostSheetID;constraint:OnDelete:CASCADE"`
	InfraItems          []InfraItem          `gorm:"foreignKey:CostSheetID;constraint:OnDelete:CASCADE"`
	OtherItems          []OtherItem          `gorm:"foreignKey:CostSheetID;constraint:OnDelete:CASCADE"`
	Attachments         []Attachment         `gorm:"polymorphic:Owner;polymorphicValue:cost_sheet"`
}

// LicenseItem is a per-unit license line on a cost sheet.
// cost = rate * quantity.
type LicenseItem struct {
	BaseModel
	CostSheetID  uuid.UUID `gorm:"type:uuid;not null;index;column:cost_sheet_id"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Description  string    `gorm:"type:text"`
	Rate         Amount    `gorm:"type:decimal(15,2);not null;default:0"`
	Quantity     Amount    `gorm:"type:decimal(10,2);not null;default:0"`
	MarginPct    Amount    `gorm:"type:decimal(8,2);not null;default:0;column:margin_pct"`
	Cost         Amount    `gorm:"type:decimal(15,2);not null;default:0"`
	MarginAmount Amount    `gorm:"type:decimal(15,2);not null;default:0;column:margin_amount"`
	Price        Amount    `gorm:"type:decimal(15,2);not null;default:0"`
}

// ImplementationItem is an effort-based implementation line.
// cost = resources * days * rate_per_day.
type ImplementationItem struct {
	BaseModel
	CostSheetID  uuid.UUID `gorm:"type:uuid;not null;index;column:cost_sheet_id"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Description  string    `gorm:"type:text"`
	Resources    Amount    `gorm:"type:decimal(10,2);not null;default:0"`
	Days         Amount    `gorm:"type:decimal(10,2);not null;default:0"`
	RatePerDay   Amount    `gorm:"type:decimal(15,2);not null;default:0;column:rate_per_day"`
	TotalDays    Amount    `gorm:"type:decimal(10,2);not null;default:0;column:total_days"`
	MarginPct    Amount    `gorm:"type:decimal(8,2);not null;default:0;column:margin_pct"`
	Cost         Amount    `gorm:"type:decimal(15,2);not null;default:0"`
	MarginAmount Amount    `gorm:"type:decimal(15,2);not null;default:0;column:margin_amount"`
	Price        Amount    `gorm:"type:decimal(15,2);not null;default:0"`
}

// SupportItem is an effort-based support line with the same cost shape
// as implementation.
type SupportItem struct {
	BaseModel
	CostSheetID  uuid.UUID `gorm:"type:uuid;not null;index;column:cost_sheet_id"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Description  string    `gorm:"type:text"`
	Resources    Amount    `gorm:"type:decimal(10,2);not null;default:0"`
	Days         Amount    `gorm:"type:decimal(10,2);not null;default:0"`
	RatePerDay   Amount    `gorm:"type:decimal(15,2);not null;default:0;column:rate_per_day"`
	TotalDays    Amount    `gorm:"type:decimal(10,2);not null;default:0;column:total_days"`
	MarginPct    Amount    `gorm:"type:decimal(8,2);not null;default:0;column:margin_pct"`
	Cost         Amount    `gorm:"type:decimal(15,2);not null;default:0"`
	MarginAmount Amount    `gorm:"type:decimal(15,2);not null;default:0;column:margin_amount"`
	Price        Amount    `gorm:"type:decimal(15,2);not null;default:0"`
}

// InfraItem is a recurring infrastructure line.
// cost = quantity * months * rate_per_month.
type InfraItem struct {
	BaseModel
	CostSheetID  uuid.UUID `gorm:"type:uuid;not null;index;column:cost_sheet_id"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Description  string    `gorm:"type:text"`
	Quantity     Amount    `gorm:"type:decimal(10,2);not null;default:0"`
	Months       Amount    `gorm:"type:decimal(10,2);not null;default:0"`
	RatePerMonth Amount    `gorm:"type:decimal(15,2);not null;default:0;column:rate_per_month"`
	MarginPct    Amount    `gorm:"type:decimal(8,2);not null;default:0;column:margin_pct"`
	Cost         Amount    `gorm:"type:decimal(15,2);not null;default:0"`
	MarginAmount Amount    `gorm:"type:decimal(15,2);not null;default:0;column:margin_amount"`
	Price        Amount    `gorm:"type:decimal(15,2);not null;default:0"`
}

// OtherItem is a flat-cost line
type OtherItem struct {
	BaseModel
	CostSheetID  uuid.UUID `gorm:"type:uuid;not null;index;column:cost_sheet_id"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Description  string    `gorm:"type:text"`
	FlatCost     Amount    `gorm:"type:decimal(15,2);not null;default:0;column:flat_cost"`
	MarginPct    Amount    `gorm:"type:decimal(8,2);not null;default:0;column:margin_pct"`
	Cost         Amount    `gorm:"type:decimal(15,2);not null;default:0"`
	MarginAmount Amount    `gorm:"type:decimal(15,2);not null;default:0;column:margin_amount"`
	Price        Amount    `gorm:"type:decimal(15,2);not null;default:0"`
}

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusOpen    InvoiceStatus = "OPEN"
	InvoiceStatusPartial InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// Invoice represents a receivable raised against a customer
type Invoice struct {
	BaseModel
	InvoiceNumber string        `gorm:"type:varchar(50);not null;unique;index;column:invoice_number"`
	CustomerName  string        `gorm:"type:varchar(255);not null;index;column:customer_name"`
	LeadID        *uuid.UUID    `gorm:"type:uuid;index;column:lead_id"`
	Lead          *Lead         `gorm:"foreignKey:LeadID"`
	InvoiceDate   *time.Time    `gorm:"type:date;column:invoice_date"`
	DueDate       *time.Time    `gorm:"type:date;column:due_date"`
	Amount        Amount        `gorm:"type:decimal(15,2);not null;default:0"`
	OpenBalance   Amount        `gorm:"type:decimal(15,2);not null;default:0;column:open_balance"`
	Status        InvoiceStatus `gorm:"type:varchar(50);not null;default:'OPEN';index"`
	Notes         string        `gorm:"type:text"`
}

// BankConnection represents a linked bank account feed
type BankConnection struct {
	BaseModel
	BankName      string            `gorm:"type:varchar(255);not null;column:bank_name"`
	AccountName   string            `gorm:"type:varchar(255);column:account_name"`
	AccountNumber string            `gorm:"type:varchar(50);column:account_number"`
	Provider      string            `gorm:"type:varchar(100)"`
	IsActive      bool              `gorm:"not null;default:true;column:is_active"`
	LastSyncedAt  *time.Time        `gorm:"column:last_synced_at"`
	Transactions  []BankTransaction `gorm:"foreignKey:ConnectionID"`
}

// BankTransactionStatus represents the reconciliation state of a deposit
type BankTransactionStatus string

const (
	BankTransactionStatusForReview   BankTransactionStatus = "FOR_REVIEW"
	BankTransactionStatusCategorized BankTransactionStatus = "CATEGORIZED"
	BankTransactionStatusExcluded    BankTransactionStatus = "EXCLUDED"
)

// IsValid checks if the BankTransactionStatus is a valid enum value
func (s BankTransactionStatus) IsValid() bool {
	switch s {
	case BankTransactionStatusForReview, BankTransactionStatusCategorized, BankTransactionStatusExcluded:
		return true
	}
	return false
}

// BankTransaction represents an incoming deposit pending reconciliation
type BankTransaction struct {
	BaseModel
	ConnectionID       *uuid.UUID            `gorm:"type:uuid;index;column:connection_id"`
	Connection         *BankConnection       `gorm:"foreignKey:ConnectionID"`
	TransactionDate    time.Time             `gorm:"type:date;not null;index;column:transaction_date"`
	Amount             Amount                `gorm:"type:decimal(15,2);not null"`
	CustomerName       string                `gorm:"type:varchar(255);index;column:customer_name"`
	Remarks            string                `gorm:"type:text"`
	Reference          string                `gorm:"type:varchar(255)"`
	Status             BankTransactionStatus `gorm:"type:varchar(50);not null;default:'FOR_REVIEW';index"`
	ExcludeReason      string                `gorm:"type:varchar(500);column:exclude_reason"`
	ReconciliationDate *time.Time            `gorm:"type:date;column:reconciliation_date"`
	MatchedVouchers    []ReceiptVoucher      `gorm:"foreignKey:BankTransactionID"`
}

// ReceiptVoucherStatus tracks whether a voucher has been tied to a deposit
type ReceiptVoucherStatus string

const (
	ReceiptVoucherStatusUnreconciled ReceiptVoucherStatus = "UNRECONCILED"
	ReceiptVoucherStatusReconciled   ReceiptVoucherStatus = "RECONCILED"
)

// IsValid checks if the ReceiptVoucherStatus is a valid enum value
func (s ReceiptVoucherStatus) IsValid() bool {
	switch s {
	case ReceiptVoucherStatusUnreconciled, ReceiptVoucherStatusReconciled:
		return true
	}
	return false
}

// ReceiptVoucher records a received payment applied across invoices
type ReceiptVoucher struct {
	BaseModel
	VoucherNumber     string               `gorm:"type:varchar(50);not null;unique;index;column:voucher_number"`
	CustomerName      string               `gorm:"type:varchar(255);not null;index;column:customer_name"`
	LeadID            *uuid.UUID           `gorm:"type:uuid;index;column:lead_id"`
	Lead              *Lead                `gorm:"foreignKey:LeadID"`
	ReceiptDate       *time.Time           `gorm:"type:date;column:receipt_date"`
	Amount            Amount               `gorm:"type:decimal(15,2);not null;default:0"`
	PaymentMode       string               `gorm:"type:varchar(100);column:payment_mode"`
	Reference         string               `gorm:"type:varchar(255)"`
	Notes             string               `gorm:"type:text"`
	Status            ReceiptVoucherStatus `gorm:"type:varchar(50);not null;default:'UNRECONCILED';index"`
	DepositToID       *uuid.UUID           `gorm:"type:uuid;index;column:deposit_to_id"`
	DepositTo         *BankConnection      `gorm:"foreignKey:DepositToID"`
	ExchangeRate      Amount               `gorm:"type:decimal(10,4);not null;default:1;column:exchange_rate"`
	BankTransactionID *uuid.UUID           `gorm:"type:uuid;index;column:bank_transaction_id"`
	CreatedBy         string               `gorm:"type:varchar(255);column:created_by"`
	Adjustments       []ReceiptAdjustment  `gorm:"foreignKey:ReceiptVoucherID;constraint:OnDelete:CASCADE"`
	Attachments       []Attachment         `gorm:"polymorphic:Owner;polymorphicValue:receipt_voucher"`
}

// ReceiptAdjustment applies part of a receipt voucher against one invoice
type ReceiptAdjustment struct {
	BaseModel
	ReceiptVoucherID uuid.UUID `gorm:"type:uuid;not null;index;column:receipt_voucher_id"`
	InvoiceID        uuid.UUID `gorm:"type:uuid;not null;index;column:invoice_id"`
	Invoice          *Invoice  `gorm:"foreignKey:InvoiceID"`
	AmountAdjusted   Amount    `gorm:"type:decimal(15,2);not null;default:0;column:amount_adjusted"`
	TDSAmount        Amount    `gorm:"type:decimal(15,2);not null;default:0;column:tds_amount"`
	DiscountAmount   Amount    `gorm:"type:decimal(15,2);not null;default:0;column:discount_amount"`
	BankCharges      Amount    `gorm:"type:decimal(15,2);not null;default:0;column:bank_charges"`
}

// Total returns the full amount the adjustment removes from the invoice
// open balance.
func (a *ReceiptAdjustment) Total() Amount {
	return a.AmountAdjusted.Add(a.TDSAmount).Add(a.DiscountAmount).Add(a.BankCharges)
}

// IsZero reports whether every component of the adjustment is zero.
func (a *ReceiptAdjustment) IsZero() bool {
	return a.Total().IsZero()
}

// AttachmentOwnerType identifies the document an attachment belongs to
type AttachmentOwnerType string

const (
	AttachmentOwnerCostSheet      AttachmentOwnerType = "cost_sheet"
	AttachmentOwnerReceiptVoucher AttachmentOwnerType = "receipt_voucher"
)

// Attachment represents an uploaded file linked to a document
type Attachment struct {
	BaseModel
	OwnerType   AttachmentOwnerType `gorm:"type:varchar(50);not null;index;column:owner_type"`
	OwnerID     uuid.UUID           `gorm:"type:uuid;not null;index;column:owner_id"`
	Filename    string              `gorm:"type:varchar(255);not null"`
	ContentType string              `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64               `gorm:"not null"`
	StoragePath string              `gorm:"type:varchar(500);not null;unique;column:storage_path"`
	UploadedBy  string              `gorm:"type:varchar(255);column:uploaded_by"`
}

// UserRole represents the application role of a user
type UserRole string

const (
	RoleAppAdmin UserRole = "app_admin"
	RoleAppUser  UserRole = "app_user"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	return r == RoleAppAdmin || r == RoleAppUser
}

// User represents an application user
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);not null;unique"`
	DisplayName  string     `gorm:"type:varchar(200);column:display_name"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash"`
	Role         UserRole   `gorm:"type:varchar(50);not null;default:'app_user'"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// NumberSequence tracks the last issued sequence per document type and year
type NumberSequence struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	DocType      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_number_sequences_doc_year;column:doc_type"`
	Year         int       `gorm:"not null;uniqueIndex:idx_number_sequences_doc_year"`
	LastSequence int       `gorm:"not null;default:0;column:last_sequence"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the sequence row ID app-side.
func (n *NumberSequence) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
