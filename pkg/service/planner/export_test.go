package planner

import "github.com/m-mizutani/gollem"

// ResponseSchemaForTest exposes the JSON schema sent with every session
func ResponseSchemaForTest() *gollem.Parameter {
	return (&client{}).buildResponseSchema()
}
