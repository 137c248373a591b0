package dataset

import (
	"strings"

	"github.com/technova/retail-insights/internal/source"
)

// Field is a semantic column of the transaction dataset.
type Field string

const (
	FieldCustomerID    Field = "customer_id"
	FieldProductName   Field = "product_name"
	FieldQuantity      Field = "quantity"
	FieldUnitPrice     Field = "unit_price_usd"
	FieldDate          Field = "date"
	FieldCategory      Field = "category"
	FieldCountry       Field = "country"
	FieldCity          Field = "city"
	FieldPaymentMethod Field = "payment_method"
	FieldAge           Field = "customer_age"
	FieldGender        Field = "customer_gender"
	FieldSatisfaction  Field = "satisfaction"
)

// satisfactionToken is the substring used for the fuzzy fallback when
// no satisfaction header matches exactly. It also catches headers
// whose accented characters were mangled by the source encoding.
const satisfactionToken = "satisfac"

// headerAliases maps raw source headers (lowercased, trimmed) to
// semantic fields. Covers both the Spanish retail export headers and
// plain English equivalents.
var headerAliases = map[string]Field{
	"id_cliente":  FieldCustomerID,
	"customer_id": FieldCustomerID,

	"nombre_producto": FieldProductName,
	"product_name":    FieldProductName,

	"cantidad": FieldQuantity,
	"quantity": FieldQuantity,

	"precio_unitario(usd)": FieldUnitPrice,
	"precio_unitario_usd":  FieldUnitPrice,
	"precio_unitario":      FieldUnitPrice,
	"unit_price_usd":       FieldUnitPrice,
	"unit_price":           FieldUnitPrice,

	"fecha": FieldDate,
	"date":  FieldDate,

	"categoria": FieldCategory,
	"categoría": FieldCategory,
	"category":  FieldCategory,

	"pais":    FieldCountry,
	"país":    FieldCountry,
	"country": FieldCountry,

	"ciudad": FieldCity,
	"city":   FieldCity,

	"metodo_pago":    FieldPaymentMethod,
	"método_pago":    FieldPaymentMethod,
	"payment_method": FieldPaymentMethod,

	"edad_cliente": FieldAge,
	"edad":         FieldAge,
	"age":          FieldAge,
	"customer_age": FieldAge,

	"genero_cliente":  FieldGender,
	"género_cliente":  FieldGender,
	"genero":          FieldGender,
	"género":          FieldGender,
	"gender":          FieldGender,
	"customer_gender": FieldGender,

	"calificacion_satisfaccion": FieldSatisfaction,
	"calificación_satisfaccion": FieldSatisfaction,
	"satisfaction":              FieldSatisfaction,
}

// Schema maps semantic fields to column indexes in a raw table.
type Schema struct {
	columns map[Field]int

	// SatisfactionDefaulted is true when no satisfaction column was
	// found at all; the cleaner then fills every record with
	// NeutralSatisfaction.
	SatisfactionDefaulted bool
}

// ResolveSchema locates the expected columns under possibly-varying
// source headers. Resolution order for the satisfaction field: exact
// alias match, then a case-insensitive substring scan, then the
// neutral default. Never fails: missing columns simply stay unmapped.
func ResolveSchema(t *source.Table) *Schema {
	columns := make(map[Field]int)
	for i, h := range t.Headers {
		key := strings.ToLower(strings.TrimSpace(h))
		field, ok := headerAliases[key]
		if !ok {
			continue
		}
		if _, taken := columns[field]; !taken {
			columns[field] = i
		}
	}

	s := &Schema{columns: columns}

	if _, ok := columns[FieldSatisfaction]; !ok {
		found := false
		for i, h := range t.Headers {
			if strings.Contains(strings.ToLower(h), satisfactionToken) {
				columns[FieldSatisfaction] = i
				found = true
				break
			}
		}
		s.SatisfactionDefaulted = !found
	}

	return s
}

// Column returns the column index for a field, if mapped.
func (s *Schema) Column(f Field) (int, bool) {
	i, ok := s.columns[f]
	return i, ok
}

// cell reads the raw cell for a field on the given row, or "" when
// the field is unmapped.
func (s *Schema) cell(t *source.Table, row int, f Field) string {
	i, ok := s.columns[f]
	if !ok {
		return ""
	}
	return t.Cell(row, i)
}
