package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sudeviagro/backoffice/pkg/validate"
)

type productInput struct {
	Name     string   `json:"name"     validate:"required,min=2,max=80"`
	Slug     string   `json:"slug"     validate:"nullable,slug"`
	Price    float64  `json:"price"    validate:"gte=0"`
	Category string   `json:"category" validate:"required,in=pickles,spices,flours,ready-to-eat"`
	Image    string   `json:"image"    validate:"nullable,url"`
	Tags     []string `json:"tags"     validate:"max=5"`
}

func TestValidProduct(t *testing.T) {
	errs := validate.Struct(&productInput{
		Name:     "Mango Pickle",
		Slug:     "mango-pickle",
		Price:    149.5,
		Category: "pickles",
		Image:    "https://cdn.example.com/mango.jpg",
	})
	assert.False(t, validate.HasErrors(errs), "%v", errs)
}

func TestRequiredAndIn(t *testing.T) {
	errs := validate.Struct(productInput{Category: "toys"})
	assert.Equal(t, "The name field is required.", errs["name"])
	assert.Equal(t, "The selected category is invalid.", errs["category"])
}

func TestInListKeepsLaterRules(t *testing.T) {
	type in struct {
		Kind string `json:"kind" validate:"in=job,partner,max=3"`
	}
	assert.Empty(t, validate.Struct(in{Kind: "job"}))
	// "partner" is allowed by in= but then fails max=3.
	assert.Contains(t, validate.Struct(in{Kind: "partner"})["kind"], "must not exceed 3")
}

func TestNullableSkipsEmpty(t *testing.T) {
	errs := validate.Struct(productInput{Name: "Jeera", Category: "spices"})
	assert.NotContains(t, errs, "slug")
	assert.NotContains(t, errs, "image")

	errs = validate.Struct(productInput{Name: "Jeera", Category: "spices", Image: "ftp://x"})
	assert.Contains(t, errs, "image")
}

func TestNumericBounds(t *testing.T) {
	errs := validate.Struct(productInput{Name: "Besan", Category: "flours", Price: -1})
	assert.Contains(t, errs, "price")
}

func TestSliceLength(t *testing.T) {
	errs := validate.Struct(productInput{
		Name: "Mix", Category: "spices",
		Tags: []string{"a", "b", "c", "d", "e", "f"},
	})
	assert.Contains(t, errs, "tags")
}

func TestFormats(t *testing.T) {
	type contact struct {
		Email string `json:"email" validate:"required,email"`
		Phone string `json:"phone" validate:"nullable,phone"`
		Ref   string `json:"ref"   validate:"nullable,uuid"`
	}

	errs := validate.Struct(contact{Email: "buyer@example.in", Phone: "+91 98765 43210"})
	assert.Empty(t, errs)

	errs = validate.Struct(contact{Email: "buyer@", Phone: "call me", Ref: "123"})
	assert.Len(t, errs, 3)
}

func TestNonStructIsValid(t *testing.T) {
	assert.Empty(t, validate.Struct("hello"))
	var p *productInput
	assert.Empty(t, validate.Struct(p))
}
