package domain

import (
	"github.com/google/uuid"
)

// DTOs for API requests and responses. Dates travel as ISO 8601 strings;
// business dates (invoice date, receipt date) use the date-only form.

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// PagedResponse wraps list results with pagination metadata
type PagedResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

// Lead DTOs

type LeadDTO struct {
	ID             uuid.UUID  `json:"id"`
	LeadNumber     string     `json:"leadNumber"`
	CompanyName    string     `json:"companyName"`
	ContactPerson  string     `json:"contactPerson,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Source         string     `json:"source,omitempty"`
	Status         LeadStatus `json:"status"`
	ProjectManager string     `json:"projectManager,omitempty"`
	SalesPerson    string     `json:"salesPerson,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CostSheetCount int        `json:"costSheetCount"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
}

type CreateLeadRequest struct {
	CompanyName    string     `json:"companyName" validate:"required,max=255"`
	ContactPerson  string     `json:"contactPerson,omitempty" validate:"max=255"`
	Email          string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string     `json:"phone,omitempty" validate:"max=50"`
	Source         string     `json:"source,omitempty" validate:"max=100"`
	Status         LeadStatus `json:"status,omitempty" validate:"omitempty,oneof=NEW CONTACTED QUALIFIED PROPOSAL NEGOTIATION WON LOST"`
	ProjectManager string     `json:"projectManager,omitempty" validate:"max=255"`
	SalesPerson    string     `json:"salesPerson,omitempty" validate:"max=255"`
	Notes          string     `json:"notes,omitempty"`
}

type UpdateLeadRequest struct {
	CompanyName    *string     `json:"companyName,omitempty" validate:"omitempty,max=255"`
	ContactPerson  *string     `json:"contactPerson,omitempty" validate:"omitempty,max=255"`
	Email          *string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string     `json:"phone,omitempty" validate:"omitempty,max=50"`
	Source         *string     `json:"source,omitempty" validate:"omitempty,max=100"`
	Status         *LeadStatus `json:"status,omitempty" validate:"omitempty,oneof=NEW CONTACTED QUALIFIED PROPOSAL NEGOTIATION WON LOST"`
	ProjectManager *string     `json:"projectManager,omitempty" validate:"omitempty,max=255"`
	SalesPerson    *string     `json:"salesPerson,omitempty" validate:"omitempty,max=255"`
	Notes          *string     `json:"notes,omitempty"`
}

// Cost sheet DTOs

// CostSheetItemInput is a raw line-item row as submitted by the client.
// Numeric fields decode leniently; blank identity fields mark the row for
// removal before pricing.
type CostSheetItemInput struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Rate         Amount `json:"rate"`
	Quantity     Amount `json:"quantity"`
	Resources    Amount `json:"resources"`
	Days         Amount `json:"days"`
	RatePerDay   Amount `json:"ratePerDay"`
	Months       Amount `json:"months"`
	RatePerMonth Amount `json:"ratePerMonth"`
	FlatCost     Amount `json:"flatCost"`
	MarginPct    Amount `json:"marginPct"`
}

type CostSheetItemDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Rate         *Amount   `json:"rate,omitempty"`
	Quantity     *Amount   `json:"quantity,omitempty"`
	Resources    *Amount   `json:"resources,omitempty"`
	Days         *Amount   `json:"days,omitempty"`
	RatePerDay   *Amount   `json:"ratePerDay,omitempty"`
	TotalDays    *Amount   `json:"totalDays,omitempty"`
	Months       *Amount   `json:"months,omitempty"`
	RatePerMonth *Amount   `json:"ratePerMonth,omitempty"`
	FlatCost     *Amount   `json:"flatCost,omitempty"`
	MarginPct    Amount    `json:"marginPct"`
	Cost         Amount    `json:"cost"`
	MarginAmount Amount    `json:"marginAmount"`
	Price        Amount    `json:"price"`
}

type CostSheetDTO struct {
	ID                  uuid.UUID          `json:"id"`
	SheetNumber         string             `json:"sheetNumber"`
	LeadID              *uuid.UUID         `json:"leadId,omitempty"`
	CustomerName        string             `json:"customerName"`
	ProjectName         string             `json:"projectName,omitempty"`
	ProjectManager      string             `json:"projectManager,omitempty"`
	SalesPerson         string             `json:"salesPerson,omitempty"`
	Date                *string            `json:"date,omitempty"`
	Status              CostSheetStatus    `json:"status"`
	Currency            string             `json:"currency"`
	TotalCost           Amount             `json:"totalCost"`
	TotalMargin         Amount             `json:"totalMargin"`
	TotalPrice          Amount             `json:"totalPrice"`
	TotalMarginPct      Amount             `json:"totalMarginPct"`
	Notes               string             `json:"notes,omitempty"`
	SubmittedBy         string             `json:"submittedBy,omitempty"`
	SubmittedAt         *string            `json:"submittedAt,omitempty"`
	ReviewedBy          string             `json:"reviewedBy,omitempty"`
	ReviewedAt          *string            `json:"reviewedAt,omitempty"`
	ReviewComments      string             `json:"reviewComments,omitempty"`
	LicenseItems        []CostSheetItemDTO `json:"licenseItems"`
	ImplementationItems []CostSheetItemDTO `json:"implementationItems"`
	SupportItems        []CostSheetItemDTO `json:"supportItems"`
	InfraItems          []CostSheetItemDTO `json:"infraItems"`
	OtherItems          []CostSheetItemDTO `json:"otherItems"`
	Attachments         []AttachmentDTO    `json:"attachments"`
	CreatedAt           string             `json:"createdAt"`
	UpdatedAt           string             `json:"updatedAt"`
}

type CreateCostSheetRequest struct {
	LeadID         *uuid.UUID           `json:"leadId" validate:"required"`
	CustomerName   string               `json:"customerName" validate:"required,max=255"`
	ProjectName    string               `json:"projectName,omitempty" validate:"max=255"`
	ProjectManager string               `json:"projectManager,omitempty" validate:"max=255"`
	SalesPerson    string               `json:"salesPerson,omitempty" validate:"max=255"`
	Date           *string              `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Currency       string               `json:"currency,omitempty" validate:"omitempty,len=3"`
	Notes          string               `json:"notes,omitempty"`
	Submit         bool                 `json:"submit,omitempty"`
	Items          []CostSheetItemInput `json:"items"`
}

type UpdateCostSheetRequest struct {
	LeadID         *uuid.UUID           `json:"leadId,omitempty"`
	CustomerName   *string              `json:"customerName,omitempty" validate:"omitempty,max=255"`
	ProjectName    *string              `json:"projectName,omitempty" validate:"omitempty,max=255"`
	ProjectManager *string              `json:"projectManager,omitempty" validate:"omitempty,max=255"`
	SalesPerson    *string              `json:"salesPerson,omitempty" validate:"omitempty,max=255"`
	Date           *string              `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Currency       *string              `json:"currency,omitempty" validate:"omitempty,len=3"`
	Notes          *string              `json:"notes,omitempty"`
	Submit         bool                 `json:"submit,omitempty"`
	Items          []CostSheetItemInput `json:"items"`
}

type ReviewCostSheetRequest struct {
	Comments string `json:"comments,omitempty" validate:"max=2000"`
}

// Invoice DTOs

type InvoiceDTO struct {
	ID            uuid.UUID     `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	CustomerName  string        `json:"customerName"`
	LeadID        *uuid.UUID    `json:"leadId,omitempty"`
	InvoiceDate   *string       `json:"invoiceDate,omitempty"`
	DueDate       *string       `json:"dueDate,omitempty"`
	Amount        Amount        `json:"amount"`
	OpenBalance   Amount        `json:"openBalance"`
	Status        InvoiceStatus `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     string        `json:"createdAt"`
	UpdatedAt     string        `json:"updatedAt"`
}

type CreateInvoiceRequest struct {
	InvoiceNumber string     `json:"invoiceNumber" validate:"required,max=50"`
	CustomerName  string     `json:"customerName" validate:"required,max=255"`
	LeadID        *uuid.UUID `json:"leadId,omitempty"`
	InvoiceDate   *string    `json:"invoiceDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate       *string    `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Amount        Amount     `json:"amount" validate:"required"`
	Notes         string     `json:"notes,omitempty"`
}

type UpdateInvoiceRequest struct {
	CustomerName *string `json:"customerName,omitempty" validate:"omitempty,max=255"`
	InvoiceDate  *string `json:"invoiceDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate      *string `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes        *string `json:"notes,omitempty"`
}

// Bank connection DTOs

type BankConnectionDTO struct {
	ID            uuid.UUID `json:"id"`
	BankName      string    `json:"bankName"`
	AccountName   string    `json:"accountName,omitempty"`
	AccountNumber string    `json:"accountNumber,omitempty"`
	Provider      string    `json:"provider,omitempty"`
	IsActive      bool      `json:"isActive"`
	LastSyncedAt  *string   `json:"lastSyncedAt,omitempty"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

type CreateBankConnectionRequest struct {
	BankName      string `json:"bankName" validate:"required,max=255"`
	AccountName   string `json:"accountName,omitempty" validate:"max=255"`
	AccountNumber string `json:"accountNumber,omitempty" validate:"max=50"`
	Provider      string `json:"provider,omitempty" validate:"max=100"`
}

type UpdateBankConnectionRequest struct {
	BankName      *string `json:"bankName,omitempty" validate:"omitempty,max=255"`
	AccountName   *string `json:"accountName,omitempty" validate:"omitempty,max=255"`
	AccountNumber *string `json:"accountNumber,omitempty" validate:"omitempty,max=50"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

// Bank transaction DTOs

type BankTransactionDTO struct {
	ID                 uuid.UUID             `json:"id"`
	ConnectionID       *uuid.UUID            `json:"connectionId,omitempty"`
	BankName           string                `json:"bankName,omitempty"`
	TransactionDate    string                `json:"transactionDate"`
	Amount             Amount                `json:"amount"`
	CustomerName       string                `json:"customerName,omitempty"`
	Remarks            string                `json:"remarks,omitempty"`
	Reference          string                `json:"reference,omitempty"`
	Status             BankTransactionStatus `json:"status"`
	ExcludeReason      string                `json:"excludeReason,omitempty"`
	ReconciliationDate *string               `json:"reconciliationDate,omitempty"`
	CreatedAt          string                `json:"createdAt"`
	UpdatedAt          string                `json:"updatedAt"`
}

// MatchTransactionRequest reconciles a deposit against a set of
// unreconciled receipt vouchers.
type MatchTransactionRequest struct {
	ReceiptIDs         []uuid.UUID `json:"receiptIds" validate:"required,min=1"`
	ReconciliationDate *string     `json:"reconciliationDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type ExcludeTransactionRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type SyncResultDTO struct {
	ConnectionsSynced int    `json:"connectionsSynced"`
	NewTransactions   int    `json:"newTransactions"`
	SyncedAt          string `json:"syncedAt"`
}

type StatementUploadResultDTO struct {
	RowsParsed   int      `json:"rowsParsed"`
	RowsImported int      `json:"rowsImported"`
	RowsSkipped  int      `json:"rowsSkipped"`
	Warnings     []string `json:"warnings,omitempty"`
}

// Receipt voucher DTOs

type ReceiptAdjustmentInput struct {
	InvoiceID      uuid.UUID `json:"invoiceId" validate:"required"`
	AmountAdjusted Amount    `json:"amountAdjusted"`
	TDSAmount      Amount    `json:"tdsAmount"`
	DiscountAmount Amount    `json:"discountAmount"`
	BankCharges    Amount    `json:"bankCharges"`
}

type ReceiptAdjustmentDTO struct {
	ID             uuid.UUID `json:"id"`
	InvoiceID      uuid.UUID `json:"invoiceId"`
	InvoiceNumber  string    `json:"invoiceNumber,omitempty"`
	AmountAdjusted Amount    `json:"amountAdjusted"`
	TDSAmount      Amount    `json:"tdsAmount"`
	DiscountAmount Amount    `json:"discountAmount"`
	BankCharges    Amount    `json:"bankCharges"`
}

type ReceiptVoucherDTO struct {
	ID                uuid.UUID              `json:"id"`
	VoucherNumber     string                 `json:"voucherNumber"`
	CustomerName      string                 `json:"customerName"`
	LeadID            *uuid.UUID             `json:"leadId,omitempty"`
	ReceiptDate       *string                `json:"receiptDate,omitempty"`
	Amount            Amount                 `json:"amount"`
	PaymentMode       string                 `json:"paymentMode,omitempty"`
	Reference         string                 `json:"reference,omitempty"`
	Notes             string                 `json:"notes,omitempty"`
	Status            ReceiptVoucherStatus   `json:"status"`
	DepositToID       *uuid.UUID             `json:"depositToId,omitempty"`
	ExchangeRate      Amount                 `json:"exchangeRate"`
	BankTransactionID *uuid.UUID             `json:"bankTransactionId,omitempty"`
	CreatedBy         string                 `json:"createdBy,omitempty"`
	Adjustments       []ReceiptAdjustmentDTO `json:"adjustments"`
	Attachments       []AttachmentDTO        `json:"attachments"`
	CreatedAt         string                 `json:"createdAt"`
	UpdatedAt         string                 `json:"updatedAt"`
}

type CreateReceiptVoucherRequest struct {
	CustomerName string                   `json:"customerName" validate:"required,max=255"`
	LeadID       *uuid.UUID               `json:"leadId,omitempty"`
	ReceiptDate  *string                  `json:"receiptDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Amount       Amount                   `json:"amount"`
	PaymentMode  string                   `json:"paymentMode,omitempty" validate:"max=100"`
	Reference    string                   `json:"reference,omitempty" validate:"max=255"`
	Notes        string                   `json:"notes,omitempty"`
	DepositToID  *uuid.UUID               `json:"depositToId,omitempty"`
	ExchangeRate *Amount                  `json:"exchangeRate,omitempty"`
	Adjustments  []ReceiptAdjustmentInput `json:"adjustments" validate:"dive"`
}

// Attachment DTOs

type AttachmentDTO struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

// Auth and user DTOs

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expiresAt"`
	User      UserDTO `json:"user"`
}

type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	Role        UserRole  `json:"role"`
	IsActive    bool      `json:"isActive"`
	LastLoginAt *string   `json:"lastLoginAt,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

type CreateUserRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	DisplayName string   `json:"displayName,omitempty" validate:"max=200"`
	Password    string   `json:"password" validate:"required,min=8"`
	Role        UserRole `json:"role" validate:"required,oneof=app_admin app_user"`
}

// Dashboard DTOs

type DashboardMetricsDTO struct {
	TotalLeads          int64             `json:"totalLeads"`
	TotalCostSheets     int64             `json:"totalCostSheets"`
	PendingCostSheets   int64             `json:"pendingCostSheets"`
	SubmittedCostSheets int64             `json:"submittedCostSheets"`
	ApprovedCostSheets  int64             `json:"approvedCostSheets"`
	RejectedCostSheets  int64             `json:"rejectedCostSheets"`
	RevertedCostSheets  int64             `json:"revertedCostSheets"`
	TotalCostValue      Amount            `json:"totalCostValue"`
	TotalPriceValue     Amount            `json:"totalPriceValue"`
	TotalMarginValue    Amount            `json:"totalMarginValue"`
	OpenInvoices        int64             `json:"openInvoices"`
	OpenInvoiceBalance  Amount            `json:"openInvoiceBalance"`
	UnreviewedDeposits  int64             `json:"unreviewedDeposits"`
	Rows                []DashboardRowDTO `json:"rows"`
}

// DashboardRowDTO is one cost sheet row in the dashboard listing.
type DashboardRowDTO struct {
	ID             uuid.UUID       `json:"id"`
	SheetNumber    string          `json:"sheetNumber"`
	CustomerName   string          `json:"customerName"`
	ProjectName    string          `json:"projectName,omitempty"`
	ProjectManager string          `json:"projectManager,omitempty"`
	SalesPerson    string          `json:"salesPerson,omitempty"`
	Date           string          `json:"date"`
	Status         CostSheetStatus `json:"status"`
	TotalCost      Amount          `json:"totalCost"`
	TotalPrice     Amount          `json:"totalPrice"`
	TotalMarginPct Amount          `json:"totalMarginPct"`
}
