package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tours-api/internal/models"
)

func TestSlugRegex(t *testing.T) {
	tests := []struct {
		name  string
		slug  string
		valid bool
	}{
		{"simple lowercase", "hello", true},
		{"with multiple hyphens", "the-forest-hiker", true},
		{"numbers and hyphens", "tour-123-test", true},
		{"uppercase letter", "Hello", false},
		{"leading hyphen", "-hello", false},
		{"trailing hyphen", "hello-", false},
		{"consecutive hyphens", "hello--world", false},
		{"space", "hello world", false},
		{"empty string", "", false},
		{"underscore", "hello_world", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := slugRegex.MatchString(tt.slug)
			assert.Equal(t, tt.valid, result, "slug: %q", tt.slug)
		})
	}
}

func newValidate() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	register(v)
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidate()

	type payload struct {
		Difficulty string `json:"difficulty" binding:"difficulty"`
		Guide      string `json:"guide" binding:"mongoid"`
		Role       string `json:"role" binding:"role"`
	}

	t.Run("valid values", func(t *testing.T) {
		err := v.Struct(payload{Difficulty: "medium", Guide: "5c8a22c62f8fb814b56fa18b", Role: "Lead-Guide"})
		assert.NoError(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		err := v.Struct(payload{Difficulty: "extreme", Guide: "nope", Role: "root"})

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		msgs := Messages(verrs)
		assert.Equal(t, []string{
			"difficulty is either: easy, medium, difficult",
			"guide must be a valid id",
			"role must be one of: user, guide, lead-guide, admin",
		}, msgs)
	})
}

func TestMessagesUseJSONNames(t *testing.T) {
	v := newValidate()

	err := v.Struct(models.SignupRequest{Name: "Jo", Email: "not-an-email", Password: "short", PasswordConfirm: "other"})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	msgs := Messages(verrs)
	require.Len(t, msgs, 4)
	assert.Contains(t, msgs[0], "name must be at least 3 characters")
	assert.Contains(t, msgs[1], "email must be a valid email address")
	assert.Contains(t, msgs[2], "password must be at least 8 characters")
	assert.Contains(t, msgs[3], "passwordConfirm must be equal to Password")
}

func TestCreateTourPrice(t *testing.T) {
	v := newValidate()
	price := func(p float64) *float64 { return &p }
	valid := func() models.CreateTourRequest {
		return models.CreateTourRequest{
			Name:         "The Free Walker",
			Duration:     1,
			MaxGroupSize: 10,
			Difficulty:   "easy",
			Summary:      "A walk around the old town",
			ImageCover:   "tour-cover.jpg",
		}
	}

	tests := []struct {
		name    string
		price   *float64
		wantTag string
	}{
		{"free tour", price(0), ""},
		{"paid tour", price(497), ""},
		{"missing price", nil, "required"},
		{"negative price", price(-1), "gte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			req.Price = tt.price

			err := v.Struct(req)

			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, "price", verrs[0].Field())
			assert.Equal(t, tt.wantTag, verrs[0].Tag())
		})
	}
}
