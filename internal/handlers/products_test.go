package handlers

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Wireless Bluetooth Headphones": "wireless-bluetooth-headphones",
		"  Smart Watch Series 5 ":       "smart-watch-series-5",
		"Hello,  World!":                "hello-world",
		"--Already--Hyphenated--":       "already-hyphenated",
		"100% Cotton":                   "100-cotton",
	}
	for name, want := range cases {
		if got := slugify(name); got != want {
			t.Fatalf("slugify(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestProductSortOrder(t *testing.T) {
	cases := map[string]bson.D{
		"price":      {{Key: "price", Value: 1}},
		"price_desc": {{Key: "price", Value: -1}},
		"ratings":    {{Key: "ratings", Value: -1}},
		"name":       {{Key: "name", Value: 1}},
		"createdAt":  {{Key: "createdAt", Value: -1}},
		"":           {{Key: "createdAt", Value: -1}},
		"bogus":      {{Key: "createdAt", Value: -1}},
	}
	for sortBy, want := range cases {
		got := productSortOrder(sortBy)
		if len(got) != 1 || got[0].Key != want[0].Key || got[0].Value != want[0].Value {
			t.Fatalf("productSortOrder(%q) = %v, want %v", sortBy, got, want)
		}
	}
}

func TestResolveProductUpdateRenameRederivesSlug(t *testing.T) {
	name := "New Name!"
	set, unset := resolveProductUpdate(updateProductRequest{Name: &name})

	if set["name"] != "New Name!" {
		t.Fatalf("expected name set, got %v", set)
	}
	if set["slug"] != "new-name" {
		t.Fatalf("expected slug re-derived, got %v", set["slug"])
	}
	if len(unset) != 0 {
		t.Fatalf("expected no unsets, got %v", unset)
	}
}

func TestResolveProductUpdateOmitsUnsetFields(t *testing.T) {
	price := 12.5
	set, unset := resolveProductUpdate(updateProductRequest{Price: &price})

	if len(set) != 1 || set["price"] != 12.5 {
		t.Fatalf("expected only price set, got %v", set)
	}
	if len(unset) != 0 {
		t.Fatalf("expected no unsets, got %v", unset)
	}
}

func TestResolveProductUpdateCompareAtPriceTriState(t *testing.T) {
	var req updateProductRequest
	if err := json.Unmarshal([]byte(`{"price": 10}`), &req); err != nil {
		t.Fatal(err)
	}
	set, unset := resolveProductUpdate(req)
	if _, ok := set["compareAtPrice"]; ok {
		t.Fatal("absent compareAtPrice must not be touched")
	}
	if len(unset) != 0 {
		t.Fatalf("absent compareAtPrice must not be unset, got %v", unset)
	}

	req = updateProductRequest{}
	if err := json.Unmarshal([]byte(`{"compareAtPrice": null}`), &req); err != nil {
		t.Fatal(err)
	}
	_, unset = resolveProductUpdate(req)
	if _, ok := unset["compareAtPrice"]; !ok {
		t.Fatalf("explicit null must clear compareAtPrice, got %v", unset)
	}

	req = updateProductRequest{}
	if err := json.Unmarshal([]byte(`{"compareAtPrice": 99.5}`), &req); err != nil {
		t.Fatal(err)
	}
	set, _ = resolveProductUpdate(req)
	if set["compareAtPrice"] != 99.5 {
		t.Fatalf("expected compareAtPrice set to 99.5, got %v", set)
	}
}

func TestResolveProductUpdateCategoryID(t *testing.T) {
	id := primitive.NewObjectID()
	hex := id.Hex()
	set, _ := resolveProductUpdate(updateProductRequest{CategoryID: &hex})

	if set["categoryId"] != id {
		t.Fatalf("expected categoryId %s, got %v", id.Hex(), set["categoryId"])
	}
}
