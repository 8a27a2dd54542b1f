package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/scstore/catalog/internal/domain"
)

func TestCSVParserParse(t *testing.T) {
	t.Parallel()

	csv := strings.Join([]string{
		"Name,Description,Price,Stock,CategoryId",
		`Dell PowerEdge R750,"Rack server, 2U",4999.99,10,1`,
		`HPE ProLiant DL380,"Says ""fast"" on the box",3500.00,5,2`,
		"NetApp AFF A400,,12000,3,1",
	}, "\n")

	parser := NewCSVParser(nil)
	products, rejects, err := parser.Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rejects) != 0 {
		t.Fatalf("Parse() rejects = %v, want none", rejects)
	}
	if len(products) != 3 {
		t.Fatalf("Parse() returned %d products, want 3", len(products))
	}

	first := products[0]
	if first.Name != "Dell PowerEdge R750" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.Description == nil || *first.Description != "Rack server, 2U" {
		t.Errorf("Description = %v, want quoted value preserved", first.Description)
	}
	if first.Price.String() != "4999.99" {
		t.Errorf("Price = %s, want 4999.99", first.Price)
	}
	if first.Stock != 10 || first.CategoryID != 1 {
		t.Errorf("Stock/CategoryID = %d/%d", first.Stock, first.CategoryID)
	}

	second := products[1]
	if second.Description == nil || *second.Description != `Says "fast" on the box` {
		t.Errorf("escaped quotes not unescaped: %v", second.Description)
	}

	if products[2].Description != nil {
		t.Errorf("empty description should map to nil, got %v", *products[2].Description)
	}
}

func TestCSVParserHeaderIsCaseInsensitiveAndAllowsExtras(t *testing.T) {
	t.Parallel()

	csv := strings.Join([]string{
		"SKU,name,DESCRIPTION,price,stock,categoryId",
		"X-1,Widget,Some widget,10.50,3,2",
	}, "\n")

	products, rejects, err := NewCSVParser(nil).Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rejects) != 0 || len(products) != 1 {
		t.Fatalf("products=%d rejects=%d, want 1/0", len(products), len(rejects))
	}
	if products[0].Name != "Widget" || products[0].CategoryID != 2 {
		t.Errorf("unexpected product: %+v", products[0])
	}
}

func TestCSVParserRejectsBadLinesAndKeepsGoodOnes(t *testing.T) {
	t.Parallel()

	csv := strings.Join([]string{
		"Name,Description,Price,Stock,CategoryId",
		"Good One,desc,10.00,1,1",
		"Bad Price,desc,not-a-number,1,1",
		",missing name,10.00,1,1",
		"Negative Price,desc,-5,1,1",
		"Bad Stock,desc,10.00,many,1",
		"Bad Category,desc,10.00,1,0",
		"Short Line,desc,10.00",
		"Good Two,desc,20.00,2,2",
	}, "\n")

	products, rejects, err := NewCSVParser(nil).Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(products) != 2 {
		t.Fatalf("Parse() returned %d products, want 2", len(products))
	}
	if products[0].Name != "Good One" || products[1].Name != "Good Two" {
		t.Errorf("wrong products kept: %q, %q", products[0].Name, products[1].Name)
	}

	if len(rejects) != 6 {
		t.Fatalf("Parse() returned %d rejects, want 6: %v", len(rejects), rejects)
	}
	if rejects[0].Line != 3 {
		t.Errorf("first reject line = %d, want 3", rejects[0].Line)
	}
}

func TestCSVParserFailsWithoutRequiredColumns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		csv  string
	}{
		{name: "empty file", csv: ""},
		{name: "missing price column", csv: "Name,Description,Stock,CategoryId\nA,B,1,1"},
		{name: "missing category column", csv: "Name,Description,Price,Stock\nA,B,1.00,1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := NewCSVParser(nil).Parse(strings.NewReader(tt.csv))
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Parse() error = %v, want ErrValidation", err)
			}
		})
	}
}
