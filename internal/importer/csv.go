package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/scstore/catalog/internal/domain"
	"go.uber.org/zap"
)

// requiredColumns must all be present in the header, matched by name
// case-insensitively. Extra columns are allowed and ignored.
var requiredColumns = []string{"name", "description", "price", "stock", "categoryid"}

// ParseError describes one rejected CSV line. Rejected lines are excluded
// from the candidate set; they never reach the batch committer and are not
// counted against the job's failedRecords.
type ParseError struct {
	Line   int
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

type CSVParser struct {
	logger *zap.Logger
}

func NewCSVParser(logger *zap.Logger) *CSVParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVParser{logger: logger}
}

// Parse reads the whole stream and returns the candidate products plus the
// per-line rejects. Only a missing or invalid header fails the parse as a
// whole; bad data lines are collected and skipped.
func (p *CSVParser) Parse(r io.Reader) ([]domain.Product, []ParseError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("%w: CSV file is empty", domain.ErrValidation)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid CSV header: %v", domain.ErrValidation, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, nil, fmt.Errorf(
				"%w: CSV must contain columns: Name, Description, Price, Stock, CategoryId",
				domain.ErrValidation,
			)
		}
	}

	var (
		products []domain.Product
		rejects  []ParseError
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				rejects = append(rejects, ParseError{Line: csvErr.Line, Reason: "malformed CSV line"})
				continue
			}
			return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := reader.FieldPos(0)

		if len(record) != len(header) {
			rejects = append(rejects, ParseError{Line: line, Reason: "wrong number of columns"})
			continue
		}

		product, reason := p.parseRecord(record, columns)
		if reason != "" {
			rejects = append(rejects, ParseError{Line: line, Reason: reason})
			continue
		}

		products = append(products, product)
	}

	if len(rejects) > 0 {
		reasons := make([]string, 0, len(rejects))
		for _, reject := range rejects {
			reasons = append(reasons, reject.Error())
		}
		p.logger.Warn("CSV lines rejected during parse",
			zap.Int("rejected", len(rejects)),
			zap.String("details", strings.Join(reasons, "; ")),
		)
	}

	return products, rejects, nil
}

func (p *CSVParser) parseRecord(record []string, columns map[string]int) (domain.Product, string) {
	field := func(name string) string {
		return strings.TrimSpace(record[columns[name]])
	}

	price, err := decimal.NewFromString(field("price"))
	if err != nil {
		return domain.Product{}, "invalid price"
	}

	stock, err := strconv.Atoi(field("stock"))
	if err != nil {
		return domain.Product{}, "invalid stock"
	}

	categoryID, err := strconv.Atoi(field("categoryid"))
	if err != nil {
		return domain.Product{}, "invalid categoryId"
	}

	product := domain.Product{
		Name:       field("name"),
		Price:      price,
		Stock:      stock,
		CategoryID: categoryID,
	}
	if description := field("description"); description != "" {
		product.Description = &description
	}

	if err := product.Validate(); err != nil {
		return domain.Product{}, strings.TrimPrefix(err.Error(), "validation error: ")
	}

	return product, ""
}
