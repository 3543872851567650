package voice

import (
	"strings"

	"github.com/sjperalta/dairydash-api/internal/models"
)

// ResolveCustomer returns the first customer whose name contains name,
// ignoring case. An empty name never matches.
func ResolveCustomer(customers []models.Customer, name string) (*models.Customer, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, false
	}
	for i := range customers {
		if strings.Contains(strings.ToLower(customers[i].Name), needle) {
			return &customers[i], true
		}
	}
	return nil, false
}
