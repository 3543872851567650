// Package docs registers the DairyDash API description with swag so the
// swagger UI can serve it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["Health"], "summary": "Health Check", "responses": {"200": {"description": "OK"}}}},
        "/auth/register": {"post": {"tags": ["Auth"], "summary": "Register", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}},
        "/auth/login": {"post": {"tags": ["Auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/refresh": {"post": {"tags": ["Auth"], "summary": "Refresh Token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"tags": ["Auth"], "summary": "Logout", "responses": {"200": {"description": "OK"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["Auth"], "summary": "Current Vendor", "responses": {"200": {"description": "OK"}}}},
        "/customers": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Customers"], "summary": "List Customers", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Customers"], "summary": "Create Customer", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/customers/{customer_id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Customers"], "summary": "Get Customer", "parameters": [{"type": "string", "name": "customer_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Customers"], "summary": "Update Customer", "parameters": [{"type": "string", "name": "customer_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Customers"], "summary": "Delete Customer", "parameters": [{"type": "string", "name": "customer_id", "in": "path", "required": true}, {"type": "boolean", "name": "purge_ledger", "in": "query"}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict"}}}
        },
        "/customers/{customer_id}/outstanding": {"put": {"security": [{"BearerAuth": []}], "tags": ["Customers"], "summary": "Set Outstanding Amount", "parameters": [{"type": "string", "name": "customer_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/customers/{customer_id}/deliveries": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Deliveries"], "summary": "List Delivery Records", "parameters": [{"type": "string", "name": "customer_id", "in": "path", "required": true}, {"type": "string", "name": "start", "in": "query"}, {"type": "string", "name": "end", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Deliveries"], "summary": "Set Delivery Status", "parameters": [{"type": "string", "name": "customer_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/customers/{customer_id}/deliveries/bulk": {"post": {"security": [{"BearerAuth": []}], "tags": ["Deliveries"], "summary": "Bulk Set Delivery Status", "parameters": [{"type": "string", "name": "customer_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/customers/{customer_id}/deliveries/{date}/toggle": {"post": {"security": [{"BearerAuth": []}], "tags": ["Deliveries"], "summary": "Toggle Delivery", "parameters": [{"type": "string", "name": "customer_id", "in": "path", "required": true}, {"type": "string", "name": "date", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/customers/{customer_id}/calendar": {"get": {"security": [{"BearerAuth": []}], "tags": ["Deliveries"], "summary": "Delivery Calendar", "parameters": [{"type": "string", "name": "customer_id", "in": "path", "required": true}, {"type": "string", "name": "month", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/deliveries/{record_id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["Deliveries"], "summary": "Delete Delivery Record", "parameters": [{"type": "string", "name": "record_id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}},
        "/customers/{customer_id}/billing": {"get": {"security": [{"BearerAuth": []}], "tags": ["Billing"], "summary": "Billing Summary", "parameters": [{"type": "string", "name": "customer_id", "in": "path", "required": true}, {"type": "string", "name": "start", "in": "query"}, {"type": "string", "name": "end", "in": "query"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/customers/{customer_id}/bills": {"post": {"security": [{"BearerAuth": []}], "tags": ["Bills"], "summary": "Generate Monthly Bill", "parameters": [{"type": "string", "name": "customer_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/billing/summaries": {"get": {"security": [{"BearerAuth": []}], "tags": ["Billing"], "summary": "All Billing Summaries", "responses": {"200": {"description": "OK"}}}},
        "/billing/export": {"get": {"security": [{"BearerAuth": []}], "tags": ["Billing"], "summary": "Export Billing Summaries", "parameters": [{"type": "string", "name": "format", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/payments": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "List Payments", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "Record Payment", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/payments/{payment_id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "Get Payment", "parameters": [{"type": "string", "name": "payment_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "Delete Payment", "parameters": [{"type": "string", "name": "payment_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/bills": {"get": {"security": [{"BearerAuth": []}], "tags": ["Bills"], "summary": "List Bills", "responses": {"200": {"description": "OK"}}}},
        "/bills/{bill_id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["Bills"], "summary": "Get Bill", "parameters": [{"type": "string", "name": "bill_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/bills/{bill_id}/download": {"get": {"security": [{"BearerAuth": []}], "produces": ["application/pdf"], "tags": ["Bills"], "summary": "Download Bill PDF", "parameters": [{"type": "string", "name": "bill_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/bills/{bill_id}/mark_sent": {"post": {"security": [{"BearerAuth": []}], "tags": ["Bills"], "summary": "Mark Bill Sent", "parameters": [{"type": "string", "name": "bill_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/voice/commands": {"post": {"security": [{"BearerAuth": []}], "tags": ["Voice"], "summary": "Execute Voice Command", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}, "502": {"description": "Bad Gateway"}}}},
        "/audits": {"get": {"security": [{"BearerAuth": []}], "tags": ["Audits"], "summary": "List Audit Logs", "responses": {"200": {"description": "OK"}}}},
        "/jobs/status": {"get": {"security": [{"BearerAuth": []}], "tags": ["Jobs"], "summary": "Get background job status", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "DairyDash API",
	Description:      "REST API for milk delivery vendors: customers, the daily delivery ledger, billing and voice commands",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
