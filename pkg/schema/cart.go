package schema

import "github.com/hamba/avro/v2"

const CartSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "cart",
	"fields": [
		{"name": "key", "type": "string"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "line_item",
				"fields": [
					{"name": "id", "type": "string"},
					{"name": "name", "type": "string"},
					{"name": "price", "type": "double"},
					{"name": "qty", "type": "long"},
					{"name": "image", "type": "string"}
				]
			}
		}},
		{"name": "count", "type": "long"},
		{"name": "subtotal", "type": "double"}
	]
}`

type (
	CartV1 struct {
		Key      string           `avro:"key"`
		Items    []CartLineItemV1 `avro:"items"`
		Count    int              `avro:"count"`
		Subtotal float64          `avro:"subtotal"`
	}

	CartLineItemV1 struct {
		ID    string  `avro:"id"`
		Name  string  `avro:"name"`
		Price float64 `avro:"price"`
		Qty   int     `avro:"qty"`
		Image string  `avro:"image"`
	}
)

// CartV1Avro panics on an invalid schema text.
func CartV1Avro() avro.Schema {
	return avro.MustParse(CartSchemaTextV1)
}
