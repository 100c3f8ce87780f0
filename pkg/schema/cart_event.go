package schema

import "github.com/hamba/avro/v2"

const CartEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "cart_event",
	"fields" : [
		{"name": "visitor_id", "type": "string"},
		{"name": "product_id", "type": "long"},
		{"name": "action", "type": "string"},
		{"name": "quantity", "type": "int"},
		{"name": "occurred_at", "type": "long"}
	]
}`

// A CartEventV1 is a single cart mutation. OccurredAt is unix milliseconds.
type CartEventV1 struct {
	VisitorID  string `avro:"visitor_id"`
	ProductID  int64  `avro:"product_id"`
	Action     string `avro:"action"`
	Quantity   int32  `avro:"quantity"`
	OccurredAt int64  `avro:"occurred_at"`
}

func CartEventV1Avro() avro.Schema {
	return avro.MustParse(CartEventSchemaTextV1)
}
