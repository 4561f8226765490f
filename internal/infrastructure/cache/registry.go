package cache

import (
	"fmt"
	"strings"

	"github.com/cpg/backend/internal/domain/billing"
	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/cpg/backend/internal/domain/identity"
	"github.com/cpg/backend/internal/domain/settings"
)

// Kind names one cached entity type
type Kind string

const (
	KindAdmin       Kind = "admin"
	KindCustomer    Kind = "customer"
	KindProduct     Kind = "product"
	KindOrder       Kind = "order"
	KindConfig      Kind = "config"
	KindImage       Kind = "image"
	KindInvoice     Kind = "invoice"
	KindTransaction Kind = "transaction"
	KindCategory    Kind = "category"
)

// AllKinds lists every cached entity type
var AllKinds = []Kind{
	KindAdmin, KindCustomer, KindProduct, KindOrder, KindConfig,
	KindImage, KindInvoice, KindTransaction, KindCategory,
}

// StartupKinds are rehydrated before the server accepts requests.
// Config goes first so mail settings exist before anything sends mail.
var StartupKinds = []Kind{KindConfig, KindAdmin, KindImage}

// ParseKind validates a kind name
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown cache kind %q", s)
}

// Registry holds one store per entity kind. It is created once per process
// and passed to whoever needs cached reads.
type Registry struct {
	Admins       *Store[string, identity.Admin]
	Customers    *Store[int64, identity.Customer]
	Products     *Store[int64, catalog.Product]
	Orders       *Store[int64, billing.Order]
	Config       *Store[string, any]
	Images       *Store[int64, catalog.Image]
	Invoices     *Store[int64, billing.Invoice]
	Transactions *Store[int64, billing.Transaction]
	Categories   *Store[int64, catalog.Category]

	adminUIDByUsername *Store[string, string]
}

// NewRegistry creates a registry with empty stores
func NewRegistry() *Registry {
	return &Registry{
		Admins:             NewStore[string, identity.Admin](),
		Customers:          NewStore[int64, identity.Customer](),
		Products:           NewStore[int64, catalog.Product](),
		Orders:             NewStore[int64, billing.Order](),
		Config:             NewStore[string, any](),
		Images:             NewStore[int64, catalog.Image](),
		Invoices:           NewStore[int64, billing.Invoice](),
		Transactions:       NewStore[int64, billing.Transaction](),
		Categories:         NewStore[int64, catalog.Category](),
		adminUIDByUsername: NewStore[string, string](),
	}
}

// PutAdmin caches an admin under its uid and indexes its username
func (r *Registry) PutAdmin(a identity.Admin) {
	r.Admins.Set(a.UID, a)
	r.adminUIDByUsername.Set(a.Username, a.UID)
}

// AdminIDByUsername returns the uid of the admin currently holding that
// username
func (r *Registry) AdminIDByUsername(username string) (string, bool) {
	admin, ok := r.AdminByUsername(username)
	if !ok {
		return "", false
	}
	return admin.UID, true
}

// AdminByUsername resolves an admin through the username index. Index
// entries left behind by a rename do not match: the cached admin must
// still carry the username.
func (r *Registry) AdminByUsername(username string) (identity.Admin, bool) {
	uid, ok := r.adminUIDByUsername.Get(username)
	if !ok {
		return identity.Admin{}, false
	}
	admin, ok := r.Admins.Get(uid)
	if !ok || admin.Username != username {
		return identity.Admin{}, false
	}
	return admin, true
}

// PutConfig publishes the stored configuration under the smtp and
// smtp_emails keys
func (r *Registry) PutConfig(cfg settings.Config) {
	r.Config.Set(settings.KeySMTP, cfg.SMTP)
	emails := cfg.SMTPEmails
	if emails == nil {
		emails = []string{}
	}
	r.Config.Set(settings.KeySMTPEmails, emails)
}

// SMTP returns the cached mail server settings
func (r *Registry) SMTP() (settings.SMTP, bool) {
	v, ok := r.Config.Get(settings.KeySMTP)
	if !ok {
		return settings.SMTP{}, false
	}
	smtp, ok := v.(settings.SMTP)
	return smtp, ok
}

// SMTPEmails returns the admin notification recipients
func (r *Registry) SMTPEmails() []string {
	v, ok := r.Config.Get(settings.KeySMTPEmails)
	if !ok {
		return nil
	}
	emails, _ := v.([]string)
	return emails
}

// Len returns the number of cached entries for kind
func (r *Registry) Len(kind Kind) int {
	switch kind {
	case KindAdmin:
		return r.Admins.Len()
	case KindCustomer:
		return r.Customers.Len()
	case KindProduct:
		return r.Products.Len()
	case KindOrder:
		return r.Orders.Len()
	case KindConfig:
		return r.Config.Len()
	case KindImage:
		return r.Images.Len()
	case KindInvoice:
		return r.Invoices.Len()
	case KindTransaction:
		return r.Transactions.Len()
	case KindCategory:
		return r.Categories.Len()
	}
	return 0
}
