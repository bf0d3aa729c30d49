package partner

import (
	"crypto/sha1"
	"encoding/hex"
	"net/mail"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeWholesale CustomerType = "WHOLESALE" // Agent buying in bulk
	CustomerTypeRetail    CustomerType = "RETAIL"
)

// IsValid checks if the customer type is valid
func (t CustomerType) IsValid() bool {
	return t == CustomerTypeWholesale || t == CustomerTypeRetail
}

// Customer is a CRM record. CID is derived once at creation from
// name, phone and email and stays stable when those fields change.
type Customer struct {
	shared.BaseEntity
	CID     string       `json:"cid"`
	Name    string       `json:"name"`
	Phone   string       `json:"phone"`
	Email   string       `json:"email"`
	Address string       `json:"address"`
	Type    CustomerType `json:"type"`
	Note    string       `json:"note"`
}

// CustomerDetails are the editable fields of a customer
type CustomerDetails struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Type    CustomerType
	Note    string
}

// NewCustomer creates a new customer and generates its CID
func NewCustomer(accountID uuid.UUID, d CustomerDetails) (*Customer, error) {
	c := &Customer{BaseEntity: shared.NewBaseEntity(accountID)}
	if err := c.Update(d); err != nil {
		return nil, err
	}
	c.CID = GenerateCID(c.Name, c.Phone, c.Email)
	return c, nil
}

// Update replaces the editable fields. CID is never recomputed.
func (c *Customer) Update(d CustomerDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	if d.Type == "" {
		d.Type = CustomerTypeWholesale
	}
	if !d.Type.IsValid() {
		return shared.NewDomainError("INVALID_CUSTOMER_TYPE", "Customer type must be WHOLESALE or RETAIL")
	}
	email := strings.TrimSpace(d.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}

	c.Name = name
	c.Phone = strings.TrimSpace(d.Phone)
	c.Email = email
	c.Address = strings.TrimSpace(d.Address)
	c.Type = d.Type
	c.Note = strings.TrimSpace(d.Note)
	return nil
}

// GenerateCID builds a customer code like KH-NVA1234-9F3C: initials of the
// name without diacritics, the last four phone digits and a short hash of
// name, phone and email that keeps codes distinct for namesakes.
func GenerateCID(name, phone, email string) string {
	var b strings.Builder
	b.WriteString("KH-")

	initials := 0
	for _, word := range strings.Fields(foldDiacritics(name)) {
		r := []rune(word)[0]
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			initials++
		}
		if initials == 3 {
			break
		}
	}
	if initials == 0 {
		b.WriteString("X")
	}

	var digits []rune
	for _, r := range phone {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	b.WriteString(string(digits))

	sum := sha1.Sum([]byte(strings.ToLower(name) + "|" + phone + "|" + strings.ToLower(email)))
	b.WriteString("-")
	b.WriteString(strings.ToUpper(hex.EncodeToString(sum[:2])))
	return b.String()
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldDiacritics removes Vietnamese tone marks so "Đỗ Ánh" becomes "Do Anh"
func foldDiacritics(s string) string {
	s = strings.NewReplacer("đ", "d", "Đ", "D").Replace(s)
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}
