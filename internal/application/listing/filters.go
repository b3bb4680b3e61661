package listing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/baechuer/theatre-listing/internal/domain"
)

var validate = validator.New()

// Filters is the set of constraints applied to an event query.
// A zero Limit, Category or Production means "no constraint".
type Filters struct {
	Limit      int    `validate:"gte=0"`
	Upcoming   bool
	Past       bool
	Month      string `validate:"omitempty,datetime=2006-01"`
	Category   int64  `validate:"gte=0"`
	Production int64  `validate:"gte=0"`
}

// DefaultFilters selects every upcoming event.
func DefaultFilters() Filters {
	return Filters{Upcoming: true}
}

func (f Filters) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	meta := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		meta[strings.ToLower(fe.Field())] = "failed " + fe.Tag()
	}
	return domain.ErrValidationMeta("invalid filters", meta)
}

// Hash is a content hash over every filter field. Two filter sets with the
// same values share a hash and therefore a memo slot.
func (f Filters) Hash() string {
	raw := fmt.Sprintf("limit=%d|upcoming=%t|past=%t|month=%s|cat=%d|prod=%d",
		f.Limit, f.Upcoming, f.Past, f.Month, f.Category, f.Production)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// IsMonth reports whether s is a YYYY-MM month.
func IsMonth(s string) bool {
	return validate.Var(s, "datetime=2006-01") == nil
}
