// Package docs registers the OpenAPI document served by the /swagger/ UI. It is maintained by
// hand and mirrors the swag annotations on the controllers.
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
        "/api/events": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "List events",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number (1-based)", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size (max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ListEventsSuccessResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Create an event",
                "parameters": [
                    {"description": "Event data", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.EventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/events/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Dashboard of events with registration counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.EventSummariesSuccessResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/events/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Get an event",
                "parameters": [{"type": "string", "description": "Event ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Replace an event",
                "parameters": [
                    {"type": "string", "description": "Event ID (UUID)", "name": "id", "in": "path", "required": true},
                    {"description": "Event data", "name": "event", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.EventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.EventSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Delete an event",
                "parameters": [{"type": "string", "description": "Event ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "data.message", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/participants": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Registers one child of the authenticated guardian. A guardian can hold one registration per event. New registrations are PENDING.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Register a child for an event",
                "parameters": [
                    {"description": "Registration", "name": "registration", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.RegisterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ParticipantSuccessResponse"}},
                    "400": {"description": "error.code: bad_request, duplicate_registration or event_full", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found (user or event)", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/participants/event/{eventId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "List an event's roster",
                "parameters": [{"type": "string", "description": "Event ID (UUID)", "name": "eventId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.RegistrationListSuccessResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/participants/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "List my registrations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.RegistrationListSuccessResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/participants/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Cancel a registration",
                "parameters": [{"type": "string", "description": "Registration ID (UUID)", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "data.message", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "400": {"description": "error.code: bad_request or event_already_occurred", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/participants/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["participants"],
                "summary": "Change a registration's status",
                "parameters": [
                    {"type": "string", "description": "Registration ID (UUID)", "name": "id", "in": "path", "required": true},
                    {"description": "New status", "name": "status", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.SetStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ParticipantSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get the current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.UserSuccessResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/users/sync": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create or fetch the caller's user record",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.UserSuccessResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/api/users/{id}/roles": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Assign a team role",
                "parameters": [
                    {"type": "string", "description": "User ID (UUID)", "name": "id", "in": "path", "required": true},
                    {"description": "Role", "name": "role", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.AssignRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.UserSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "403": {"description": "error.code: forbidden", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness and database check",
                "responses": {
                    "200": {"description": "data.status: ok", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "503": {"description": "error.code: service_unavailable", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.AssignRoleRequest": {
            "type": "object",
            "properties": {"role": {"type": "string", "example": "TEAM_COACH"}}
        },
        "controllers.EventRequest": {
            "type": "object",
            "properties": {
                "ageGroup": {"type": "string"},
                "capacity": {"type": "integer"},
                "date": {"type": "string", "example": "2026-07-04"},
                "description": {"type": "string"},
                "location": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "number"}
            }
        },
        "controllers.EventResponse": {
            "type": "object",
            "properties": {
                "ageGroup": {"type": "string"},
                "capacity": {"type": "integer"},
                "createdAt": {"type": "string"},
                "date": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "string"},
                "location": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "number"},
                "updatedAt": {"type": "string"}
            }
        },
        "controllers.EventSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.EventResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.EventSummaryResponse": {
            "type": "object",
            "properties": {
                "event": {"$ref": "#/definitions/controllers.EventResponse"},
                "registeredCount": {"type": "integer"}
            }
        },
        "controllers.EventSummariesSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/controllers.EventSummaryResponse"}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ListEventsResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/controllers.EventResponse"}},
                "pagination": {"$ref": "#/definitions/helpers.PaginationMeta"}
            }
        },
        "controllers.ListEventsSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.ListEventsResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ParticipantResponse": {
            "type": "object",
            "properties": {
                "additionalInformation": {"type": "string"},
                "allergies": {"type": "string"},
                "childAge": {"type": "integer"},
                "childName": {"type": "string"},
                "createdAt": {"type": "string"},
                "emergencyContact": {"type": "string"},
                "eventId": {"type": "string"},
                "id": {"type": "string"},
                "medicalConcerns": {"type": "string"},
                "needsFood": {"type": "boolean"},
                "registrationDate": {"type": "string"},
                "status": {"type": "string", "enum": ["PENDING", "CONFIRMED"]},
                "userId": {"type": "string"}
            }
        },
        "controllers.ParticipantSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.ParticipantResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.RegisterRequest": {
            "type": "object",
            "properties": {
                "additionalInformation": {"type": "string"},
                "allergies": {"type": "string"},
                "childAge": {"type": "integer"},
                "childName": {"type": "string"},
                "emergencyContact": {"type": "string"},
                "eventId": {"type": "string"},
                "medicalConcerns": {"type": "string"},
                "needsFood": {"type": "boolean"}
            }
        },
        "controllers.RegistrationListSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.RegistrationView"}},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.SetStatusRequest": {
            "type": "object",
            "properties": {"status": {"type": "string", "enum": ["PENDING", "CONFIRMED"]}}
        },
        "controllers.UserResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "displayName": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "roles": {"type": "array", "items": {"type": "string"}},
                "userType": {"type": "string", "enum": ["USER", "ADMIN"]}
            }
        },
        "controllers.UserSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.UserResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "domain.EventSummaryView": {
            "type": "object",
            "properties": {
                "ageGroup": {"type": "string"},
                "capacity": {"type": "integer"},
                "description": {"type": "string"},
                "endDate": {"type": "string"},
                "id": {"type": "string"},
                "location": {"type": "string"},
                "price": {"type": "number"},
                "startDate": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "domain.RegistrationView": {
            "type": "object",
            "properties": {
                "allergies": {"type": "string"},
                "childAge": {"type": "integer"},
                "childFirstName": {"type": "string"},
                "childLastName": {"type": "string"},
                "emergencyContact": {"type": "string"},
                "event": {"$ref": "#/definitions/domain.EventSummaryView"},
                "id": {"type": "string"},
                "needsFood": {"type": "boolean"},
                "registrationDate": {"type": "string"},
                "status": {"type": "string", "enum": ["PENDING", "CONFIRMED"]}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "helpers.PaginationMeta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the identity token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Youth Events API",
	Description:      "Event registration backend for a youth organisation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
