package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Guard Console API",
        "description": "Back-office console for guards, clients, sites, duties, attendance, complaints, expenses and leaves",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Session", "description": "Operator sign in"},
        {"name": "Entities", "description": "Generic list, form and transition endpoints shared by every resource"},
        {"name": "Exports", "description": "Stored CSV/PDF exports"}
    ],
    "paths": {
        "/session/login": {
            "post": {
                "tags": ["Session"],
                "summary": "Sign in",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/logout": {
            "post": {
                "tags": ["Session"],
                "summary": "Sign out",
                "responses": {"204": {"description": "Signed out"}}
            }
        },
        "/session": {
            "get": {
                "tags": ["Session"],
                "summary": "Current operator",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "No active session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/{entity}": {
            "get": {
                "tags": ["Entities"],
                "summary": "List records",
                "description": "Unreserved query keys filter by field, e.g. status=active or site_id=3.",
                "parameters": [
                    {"$ref": "#/parameters/entity"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "per_page", "in": "query", "type": "integer"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string", "enum": ["asc", "desc"]},
                    {"name": "include", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Superseded by a newer list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Entities"],
                "summary": "Submit the create form",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "parameters": [
                    {"$ref": "#/parameters/entity"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Field errors under meta.fields", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/{entity}/state": {
            "get": {
                "tags": ["Entities"],
                "summary": "Container snapshot",
                "parameters": [{"$ref": "#/parameters/entity"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/{entity}/state/error": {
            "delete": {
                "tags": ["Entities"],
                "summary": "Clear the container error",
                "parameters": [{"$ref": "#/parameters/entity"}],
                "responses": {"204": {"description": "Cleared"}}
            }
        },
        "/{entity}/lookup": {
            "get": {
                "tags": ["Entities"],
                "summary": "Typeahead options",
                "parameters": [
                    {"$ref": "#/parameters/entity"},
                    {"name": "q", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/{entity}/export": {
            "get": {
                "tags": ["Entities"],
                "summary": "Export the loaded page",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/entity"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/{entity}/{id}": {
            "get": {
                "tags": ["Entities"],
                "summary": "Get one record",
                "parameters": [
                    {"$ref": "#/parameters/entity"},
                    {"$ref": "#/parameters/id"},
                    {"name": "include", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Entities"],
                "summary": "Submit the edit form",
                "description": "Fields omitted from the body keep the stored values.",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "parameters": [
                    {"$ref": "#/parameters/entity"},
                    {"$ref": "#/parameters/id"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Field errors under meta.fields", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Entities"],
                "summary": "Delete a record",
                "parameters": [
                    {"$ref": "#/parameters/entity"},
                    {"$ref": "#/parameters/id"}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Admins only", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/{entity}/{id}/{action}": {
            "post": {
                "tags": ["Entities"],
                "summary": "Apply a domain action",
                "parameters": [
                    {"$ref": "#/parameters/entity"},
                    {"$ref": "#/parameters/id"},
                    {"name": "action", "in": "path", "required": true, "type": "string", "enum": ["status", "visibility", "check-in", "check-out"]},
                    {"name": "payload", "in": "body", "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "501": {"description": "Action not available", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/{file}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a stored export",
                "parameters": [
                    {"name": "file", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "File"}, "404": {"description": "Not found"}}
            }
        }
    },
    "parameters": {
        "entity": {
            "name": "entity",
            "in": "path",
            "required": true,
            "type": "string",
            "enum": ["clients", "complaints", "contacts", "duties", "duty-attendances", "duty-status-reports", "duty-time-types", "expense-categories", "expense-reviews", "expenses", "guard-assignments", "guard-types", "guards", "leaves", "site-locations", "sites"]
        },
        "id": {"name": "id", "in": "path", "required": true, "type": "integer"}
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "current_page": {"type": "integer"},
                "last_page": {"type": "integer"},
                "total": {"type": "integer"},
                "per_page": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
