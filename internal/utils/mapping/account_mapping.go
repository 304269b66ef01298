package mapping

import (
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	"github.com/SscSPs/darkstore_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		Code:        d.Code,
		Name:        d.Name,
		AccountType: models.AccountType(d.AccountType),
		Tag:         nullableString(string(d.Tag)),
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		Code:        m.Code,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		Tag:         domain.AccountTag(derefString(m.Tag)),
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
