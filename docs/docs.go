// Package docs holds the Swagger document served at /swagger. Regenerate with
// `swag init -g cmd/server/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/checkout/revert": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Admin only. Puts the estimate back to payment_pending. The project and order are left unchanged.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Revert an estimate to unpaid",
                "parameters": [
                    {"description": "Revert request, confirm must be true", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.RevertRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/checkout/status": {
            "patch": {
                "security": [{"Bearer": []}],
                "description": "Admin only. Sets the estimate status and mirrors it to the project and, where the order shares the status, to the order.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Set an estimate's status",
                "parameters": [
                    {"description": "Status patch", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.UpdateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/estimates": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Prices the submitted screens and apis at the configured hourly rate and stores the estimate as a draft.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["estimates"],
                "summary": "Submit a quote",
                "parameters": [
                    {"description": "Quote", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateEstimateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.EstimateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/estimates/{estimate_id}": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["estimates"],
                "summary": "Get an estimate",
                "parameters": [
                    {"type": "string", "description": "Estimate ID (UUID)", "name": "estimate_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.EstimateResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/estimates/{estimate_id}/confirm": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Marks the estimate paid, queues its project and marks the linked order paid in one transaction. Only the owner or an admin may confirm.",
                "produces": ["application/json"],
                "tags": ["estimates"],
                "summary": "Confirm payment",
                "parameters": [
                    {"type": "string", "description": "Estimate ID (UUID)", "name": "estimate_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.SuccessResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/estimates/{estimate_id}/finalize": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Locks in the estimate's scope, provisions its project once and returns where the client pays.\nCalling it again keeps the existing project and returns the checkout location again.",
                "produces": ["application/json"],
                "tags": ["estimates"],
                "summary": "Finalize an estimate",
                "parameters": [
                    {"type": "string", "description": "Estimate ID (UUID)", "name": "estimate_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.FinalizeResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/estimates/{estimate_id}/history": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Returns the recorded status transitions of an estimate, oldest first.",
                "produces": ["application/json"],
                "tags": ["estimates"],
                "summary": "Estimate status history",
                "parameters": [
                    {"type": "string", "description": "Estimate ID (UUID)", "name": "estimate_id", "in": "path", "required": true},
                    {"type": "integer", "default": 50, "description": "Maximum number of events", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HistoryResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/estimates/{estimate_id}/proof": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Stores a bank transfer receipt for the estimate and moves it, its project and its order to waiting_verification.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["estimates"],
                "summary": "Upload payment proof",
                "parameters": [
                    {"type": "string", "description": "Estimate ID (UUID)", "name": "estimate_id", "in": "path", "required": true},
                    {"type": "file", "description": "Receipt (max 10MB)", "name": "proof", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.EstimateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns the health status of the API and its database",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.HealthResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Returns the caller's id, email, role and whether they are an admin.",
                "produces": ["application/json"],
                "tags": ["profiles"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.MeResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/orders/{order_id}": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get an order",
                "parameters": [
                    {"type": "string", "description": "Order ID (UUID)", "name": "order_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.OrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Returns the caller's projects, newest first. Admins see every project.",
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "List projects",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ProjectListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects/{project_id}": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Returns the project with its specification and files.",
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Get project details",
                "parameters": [
                    {"type": "string", "description": "Project ID (UUID)", "name": "project_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ProjectResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects/{project_id}/developer": {
            "patch": {
                "security": [{"Bearer": []}],
                "description": "Admin only. A null developer_id clears the assignment.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Assign a developer",
                "parameters": [
                    {"type": "string", "description": "Project ID (UUID)", "name": "project_id", "in": "path", "required": true},
                    {"description": "Developer", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.AssignDeveloperRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ProjectResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/projects/{project_id}/files": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Uploads a deliverable and appends it to the project's file list. Requires the projects:files:write permission.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["projects"],
                "summary": "Attach a file to a project",
                "parameters": [
                    {"type": "string", "description": "Project ID (UUID)", "name": "project_id", "in": "path", "required": true},
                    {"type": "file", "description": "File (max 10MB)", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.ProjectFile"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/webhooks/mercadopago": {
            "post": {
                "description": "Confirms payment of the estimate named by the payment's external_reference once the payment is approved.\nNotifications that do not apply are acknowledged with status \"ignored\" so MercadoPago stops retrying them.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "MercadoPago payment webhook",
                "responses": {
                    "200": {"description": "status", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.AssignDeveloperRequest": {
            "type": "object",
            "properties": {
                "developer_id": {"type": "string"}
            }
        },
        "models.CreateEstimateRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "apis": {"type": "array", "items": {"$ref": "#/definitions/models.LineItem"}},
                "screens": {"type": "array", "items": {"$ref": "#/definitions/models.LineItem"}},
                "service_offer_id": {"type": "string"},
                "summary": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.EstimateResponse": {
            "type": "object",
            "properties": {
                "apis": {"type": "array", "items": {"$ref": "#/definitions/models.LineItem"}},
                "complexity": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "proof_url": {"type": "string"},
                "screens": {"type": "array", "items": {"$ref": "#/definitions/models.LineItem"}},
                "service_offer_id": {"type": "string"},
                "status": {"type": "string"},
                "summary": {"type": "string"},
                "title": {"type": "string"},
                "total_cost": {"type": "number"},
                "total_hours": {"type": "number"},
                "updated_at": {"type": "string"}
            }
        },
        "models.FinalizeResponse": {
            "type": "object",
            "properties": {
                "url": {"type": "string"}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "models.HistoryEntry": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "actor": {"type": "string"},
                "at": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"}
            }
        },
        "models.HistoryResponse": {
            "type": "object",
            "properties": {
                "estimate_id": {"type": "string"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/models.HistoryEntry"}}
            }
        },
        "models.LineItem": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "description": {"type": "string"},
                "hours": {"type": "number"},
                "title": {"type": "string"}
            }
        },
        "models.MeResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "string"},
                "is_admin": {"type": "boolean"},
                "role": {"type": "string"}
            }
        },
        "models.OrderResponse": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "created_at": {"type": "string"},
                "currency": {"type": "string"},
                "order_id": {"type": "string"},
                "project_id": {"type": "string"},
                "proof_url": {"type": "string"},
                "status": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.ProjectFile": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string"},
                "uploaded_at": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "models.ProjectListResponse": {
            "type": "object",
            "properties": {
                "projects": {"type": "array", "items": {"$ref": "#/definitions/models.ProjectSummary"}}
            }
        },
        "models.ProjectResponse": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "description": {"type": "string"},
                "developer_id": {"type": "string"},
                "estimate_id": {"type": "string"},
                "files": {"type": "array", "items": {"$ref": "#/definitions/models.ProjectFile"}},
                "id": {"type": "string"},
                "spec": {"type": "string"},
                "status": {"type": "string"},
                "title": {"type": "string"},
                "updated_at": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "models.ProjectSummary": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "status": {"type": "string"},
                "title": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.RevertRequest": {
            "type": "object",
            "required": ["estimateId"],
            "properties": {
                "confirm": {"type": "boolean"},
                "estimateId": {"type": "string"}
            }
        },
        "models.SuccessResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}
            }
        },
        "models.UpdateStatusRequest": {
            "type": "object",
            "required": ["estimateId", "status"],
            "properties": {
                "estimateId": {"type": "string"},
                "status": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Agency Backend API",
	Description:      "Backend API for the agency's estimate to project lifecycle: quotes, checkout, payment confirmation and project delivery.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
