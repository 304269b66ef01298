package services

import "github.com/SscSPs/darkstore_ledger/internal/core/domain"

// SystemActor is recorded as the creator of records written by the service itself.
const SystemActor = "system"

// DefaultChartOfAccounts returns the darkstore chart seeded at start-up.
func DefaultChartOfAccounts() []domain.Account {
	return []domain.Account{
		{Code: "1010-Cash", Name: "Cash", AccountType: domain.Asset, Description: "Cash on hand across stores"},
		{Code: "1020-Bank", Name: "Bank", AccountType: domain.Asset, Description: "Operating bank account"},
		{Code: "1200-AccountsReceivable", Name: "Accounts Receivable", AccountType: domain.Asset, Tag: domain.Receivable, Description: "Amounts owed by customers and payment gateways"},
		{Code: "1300-Inventory", Name: "Inventory", AccountType: domain.Asset, Description: "Stock held in darkstores"},
		{Code: "2000-AccountsPayable", Name: "Accounts Payable", AccountType: domain.Liability, Tag: domain.Payable, Description: "General trade payables"},
		{Code: "2100-VendorPayables", Name: "Vendor Payables", AccountType: domain.Liability, Tag: domain.Payable, Description: "Amounts owed to vendors"},
		{Code: "2200-CustomerRefundsPayable", Name: "Customer Refunds Payable", AccountType: domain.Liability, Tag: domain.Payable, Description: "Approved refunds not yet paid out"},
		{Code: "3000-OwnersEquity", Name: "Owner's Equity", AccountType: domain.Equity},
		{Code: "4000-Revenue", Name: "Sales Revenue", AccountType: domain.Revenue, Description: "Order revenue"},
		{Code: "4100-DeliveryFeeRevenue", Name: "Delivery Fee Revenue", AccountType: domain.Revenue},
		{Code: "5000-COGS", Name: "Cost of Goods Sold", AccountType: domain.Expense},
		{Code: "5100-PaymentGatewayFees", Name: "Payment Gateway Fees", AccountType: domain.Expense},
		{Code: "5200-RefundExpense", Name: "Refund Expense", AccountType: domain.Expense},
		{Code: "5300-Wages", Name: "Wages", AccountType: domain.Expense, Description: "Store and rider wages"},
	}
}
