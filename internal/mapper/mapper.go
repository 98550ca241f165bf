package mapper

import (
	"time"

	"github.com/google/uuid"

	"github.com/sailfin-io/backoffice-api/internal/domain"
)

const (
	timestampLayout = "2006-01-02T15:04:05Z"
	dateLayout      = "2006-01-02"
)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatTimestampPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTimestamp(*t)
	return &s
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func amountPtr(a domain.Amount) *domain.Amount {
	return &a
}

// ToLeadDTO converts Lead to LeadDTO
func ToLeadDTO(lead *domain.Lead, costSheetCount int) domain.LeadDTO {
	return domain.LeadDTO{
		ID:             lead.ID,
		LeadNumber:     lead.LeadNumber,
		CompanyName:    lead.CompanyName,
		ContactPerson:  lead.ContactPerson,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Source:         lead.Source,
		Status:         lead.Status,
		ProjectManager: lead.ProjectManager,
		SalesPerson:    lead.SalesPerson,
		Notes:          lead.Notes,
		CostSheetCount: costSheetCount,
		CreatedAt:      formatTimestamp(lead.CreatedAt),
		UpdatedAt:      formatTimestamp(lead.UpdatedAt),
	}
}

// ToCostSheetDTO converts a CostSheet with its line items to CostSheetDTO
func ToCostSheetDTO(sheet *domain.CostSheet) domain.CostSheetDTO {
	dto := domain.CostSheetDTO{
		ID:             sheet.ID,
		SheetNumber:    sheet.SheetNumber,
		LeadID:         sheet.LeadID,
		CustomerName:   sheet.CustomerName,
		ProjectName:    sheet.ProjectName,
		ProjectManager: sheet.ProjectManager,
		SalesPerson:    sheet.SalesPerson,
		Date:           formatDatePtr(sheet.Date),
		Status:         sheet.Status,
		Currency:       sheet.Currency,
		TotalCost:      sheet.TotalCost,
		TotalMargin:    sheet.TotalMargin,
		TotalPrice:     sheet.TotalPrice,
		TotalMarginPct: sheet.TotalMarginPct,
		Notes:          sheet.Notes,
		SubmittedBy:    sheet.SubmittedBy,
		SubmittedAt:    formatTimestampPtr(sheet.SubmittedAt),
		ReviewedBy:     sheet.ReviewedBy,
		ReviewedAt:     formatTimestampPtr(sheet.ReviewedAt),
		ReviewComments: sheet.ReviewComments,
		CreatedAt:      formatTimestamp(sheet.CreatedAt),
		UpdatedAt:      formatTimestamp(sheet.UpdatedAt),

		LicenseItems:        make([]domain.CostSheetItemDTO, 0, len(sheet.LicenseItems)),
		ImplementationItems: make([]domain.CostSheetItemDTO, 0, len(sheet.ImplementationItems)),
		SupportItems:        make([]domain.CostSheetItemDTO, 0, len(sheet.SupportItems)),
		InfraItems:          make([]domain.CostSheetItemDTO, 0, len(sheet.InfraItems)),
		OtherItems:          make([]domain.CostSheetItemDTO, 0, len(sheet.OtherItems)),
		Attachments:         make([]domain.AttachmentDTO, 0, len(sheet.Attachments)),
	}

	for i := range sheet.LicenseItems {
		dto.LicenseItems = append(dto.LicenseItems, toLicenseItemDTO(&sheet.LicenseItems[i]))
	}
	for i := range sheet.ImplementationItems {
		dto.ImplementationItems = append(dto.ImplementationItems, toEffortItemDTO(
			sheet.ImplementationItems[i].ID,
			sheet.ImplementationItems[i].Name,
			sheet.ImplementationItems[i].Description,
			sheet.ImplementationItems[i].Resources,
			sheet.ImplementationItems[i].Days,
			sheet.ImplementationItems[i].RatePerDay,
			sheet.ImplementationItems[i].TotalDays,
			sheet.ImplementationItems[i].MarginPct,
			sheet.ImplementationItems[i].Cost,
			sheet.ImplementationItems[i].MarginAmount,
			sheet.ImplementationItems[i].Price,
		))
	}
	for i := range sheet.SupportItems {
		dto.SupportItems = append(dto.SupportItems, toEffortItemDTO(
			sheet.SupportItems[i].ID,
			sheet.SupportItems[i].Name,
			sheet.SupportItems[i].Description,
			sheet.SupportItems[i].Resources,
			sheet.SupportItems[i].Days,
			sheet.SupportItems[i].RatePerDay,
			sheet.SupportItems[i].TotalDays,
			sheet.SupportItems[i].MarginPct,
			sheet.SupportItems[i].Cost,
			sheet.SupportItems[i].MarginAmount,
			sheet.SupportItems[i].Price,
		))
	}
	for i := range sheet.InfraItems {
		dto.InfraItems = append(dto.InfraItems, toInfraItemDTO(&sheet.InfraItems[i]))
	}
	for i := range sheet.OtherItems {
		dto.OtherItems = append(dto.OtherItems, toOtherItemDTO(&sheet.OtherItems[i]))
	}
	for i := range sheet.Attachments {
		dto.Attachments = append(dto.Attachments, ToAttachmentDTO(&sheet.Attachments[i]))
	}

	return dto
}

func toLicenseItemDTO(item *domain.LicenseItem) domain.CostSheetItemDTO {
	return domain.CostSheetItemDTO{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		Rate:         amountPtr(item.Rate),
		Quantity:     amountPtr(item.Quantity),
		MarginPct:    item.MarginPct,
		Cost:         item.Cost,
		MarginAmount: item.MarginAmount,
		Price:        item.Price,
	}
}

func toEffortItemDTO(id uuid.UUID, name, description string, resources, days, ratePerDay, totalDays, marginPct, cost, marginAmount, price domain.Amount) domain.CostSheetItemDTO {
	return domain.CostSheetItemDTO{
		ID:           id,
		Name:         name,
		Description:  description,
		Resources:    amountPtr(resources),
		Days:         amountPtr(days),
		RatePerDay:   amountPtr(ratePerDay),
		TotalDays:    amountPtr(totalDays),
		MarginPct:    marginPct,
		Cost:         cost,
		MarginAmount: marginAmount,
		Price:        price,
	}
}

func toInfraItemDTO(item *domain.InfraItem) domain.CostSheetItemDTO {
	return domain.CostSheetItemDTO{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		Quantity:     amountPtr(item.Quantity),
		Months:       amountPtr(item.Months),
		RatePerMonth: amountPtr(item.RatePerMonth),
		MarginPct:    item.MarginPct,
		Cost:         item.Cost,
		MarginAmount: item.MarginAmount,
		Price:        item.Price,
	}
}

func toOtherItemDTO(item *domain.OtherItem) domain.CostSheetItemDTO {
	return domain.CostSheetItemDTO{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		FlatCost:     amountPtr(item.FlatCost),
		MarginPct:    item.MarginPct,
		Cost:         item.Cost,
		MarginAmount: item.MarginAmount,
		Price:        item.Price,
	}
}

// ToInvoiceDTO converts Invoice to InvoiceDTO
func ToInvoiceDTO(invoice *domain.Invoice) domain.InvoiceDTO {
	return domain.InvoiceDTO{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerName:  invoice.CustomerName,
		LeadID:        invoice.LeadID,
		InvoiceDate:   formatDatePtr(invoice.InvoiceDate),
		DueDate:       formatDatePtr(invoice.DueDate),
		Amount:        invoice.Amount,
		OpenBalance:   invoice.OpenBalance,
		Status:        invoice.Status,
		Notes:         invoice.Notes,
		CreatedAt:     formatTimestamp(invoice.CreatedAt),
		UpdatedAt:     formatTimestamp(invoice.UpdatedAt),
	}
}

// ToBankConnectionDTO converts BankConnection to BankConnectionDTO
func ToBankConnectionDTO(conn *domain.BankConnection) domain.BankConnectionDTO {
	return domain.BankConnectionDTO{
		ID:            conn.ID,
		BankName:      conn.BankName,
		AccountName:   conn.AccountName,
		AccountNumber: conn.AccountNumber,
		Provider:      conn.Provider,
		IsActive:      conn.IsActive,
		LastSyncedAt:  formatTimestampPtr(conn.LastSyncedAt),
		CreatedAt:     formatTimestamp(conn.CreatedAt),
		UpdatedAt:     formatTimestamp(conn.UpdatedAt),
	}
}

// ToBankTransactionDTO converts BankTransaction to BankTransactionDTO
func ToBankTransactionDTO(txn *domain.BankTransaction) domain.BankTransactionDTO {
	dto := domain.BankTransactionDTO{
		ID:                 txn.ID,
		ConnectionID:       txn.ConnectionID,
		TransactionDate:    txn.TransactionDate.Format(dateLayout),
		Amount:             txn.Amount,
		CustomerName:       txn.CustomerName,
		Remarks:            txn.Remarks,
		Reference:          txn.Reference,
		Status:             txn.Status,
		ExcludeReason:      txn.ExcludeReason,
		ReconciliationDate: formatDatePtr(txn.ReconciliationDate),
		CreatedAt:          formatTimestamp(txn.CreatedAt),
		UpdatedAt:          formatTimestamp(txn.UpdatedAt),
	}
	if txn.Connection != nil {
		dto.BankName = txn.Connection.BankName
	}
	return dto
}

// ToReceiptVoucherDTO converts ReceiptVoucher to ReceiptVoucherDTO
func ToReceiptVoucherDTO(voucher *domain.ReceiptVoucher) domain.ReceiptVoucherDTO {
	dto := domain.ReceiptVoucherDTO{
		ID:                voucher.ID,
		VoucherNumber:     voucher.VoucherNumber,
		CustomerName:      voucher.CustomerName,
		LeadID:            voucher.LeadID,
		ReceiptDate:       formatDatePtr(voucher.ReceiptDate),
		Amount:            voucher.Amount,
		PaymentMode:       voucher.PaymentMode,
		Reference:         voucher.Reference,
		Notes:             voucher.Notes,
		Status:            voucher.Status,
		DepositToID:       voucher.DepositToID,
		ExchangeRate:      voucher.ExchangeRate,
		BankTransactionID: voucher.BankTransactionID,
		CreatedBy:         voucher.CreatedBy,
		Adjustments:       make([]domain.ReceiptAdjustmentDTO, 0, len(voucher.Adjustments)),
		Attachments:       make([]domain.AttachmentDTO, 0, len(voucher.Attachments)),
		CreatedAt:         formatTimestamp(voucher.CreatedAt),
		UpdatedAt:         formatTimestamp(voucher.UpdatedAt),
	}

	for i := range voucher.Adjustments {
		adj := &voucher.Adjustments[i]
		adjDTO := domain.ReceiptAdjustmentDTO{
			ID:             adj.ID,
			InvoiceID:      adj.InvoiceID,
			AmountAdjusted: adj.AmountAdjusted,
			TDSAmount:      adj.TDSAmount,
			DiscountAmount: adj.DiscountAmount,
			BankCharges:    adj.BankCharges,
		}
		if adj.Invoice != nil {
			adjDTO.InvoiceNumber = adj.Invoice.InvoiceNumber
		}
		dto.Adjustments = append(dto.Adjustments, adjDTO)
	}
	for i := range voucher.Attachments {
		dto.Attachments = append(dto.Attachments, ToAttachmentDTO(&voucher.Attachments[i]))
	}

	return dto
}

// ToAttachmentDTO converts Attachment to AttachmentDTO
func ToAttachmentDTO(attachment *domain.Attachment) domain.AttachmentDTO {
	return domain.AttachmentDTO{
		ID:          attachment.ID,
		Filename:    attachment.Filename,
		ContentType: attachment.ContentType,
		Size:        attachment.Size,
		UploadedBy:  attachment.UploadedBy,
		CreatedAt:   formatTimestamp(attachment.CreatedAt),
	}
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		IsActive:    user.IsActive,
		LastLoginAt: formatTimestampPtr(user.LastLoginAt),
		CreatedAt:   formatTimestamp(user.CreatedAt),
	}
}

// ToDashboardRowDTO converts a cost sheet to a dashboard listing row.
// The row date falls back to the record creation time when the sheet has
// no date.
func ToDashboardRowDTO(sheet *domain.CostSheet) domain.DashboardRowDTO {
	rowDate := sheet.CreatedAt
	if sheet.Date != nil {
		rowDate = *sheet.Date
	}
	return domain.DashboardRowDTO{
		ID:             sheet.ID,
		SheetNumber:    sheet.SheetNumber,
		CustomerName:   sheet.CustomerName,
		ProjectName:    sheet.ProjectName,
		ProjectManager: sheet.ProjectManager,
		SalesPerson:    sheet.SalesPerson,
		Date:           rowDate.Format(dateLayout),
		Status:         sheet.Status,
		TotalCost:      sheet.TotalCost,
		TotalPrice:     sheet.TotalPrice,
		TotalMarginPct: sheet.TotalMarginPct,
	}
}
