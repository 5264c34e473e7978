// Package docs registers the OpenAPI description of the console API with swag.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Credentials and access level",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Update own profile",
                "parameters": [
                    {
                        "description": "Profile fields",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.profileRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/api/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "parameters": [
                    {"type": "string", "description": "Substring of username, name or email", "name": "search", "in": "query"},
                    {"type": "string", "description": "admin, gerente or user", "name": "level", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.listUsersResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create user",
                "parameters": [
                    {
                        "description": "New user",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.createUserRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/api/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get user",
                "parameters": [{"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update user",
                "parameters": [
                    {"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Fields to change",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.updateUserRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            },
            "delete": {
                "tags": ["users"],
                "summary": "Delete user",
                "parameters": [{"type": "string", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        },
        "/api/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "System statistics",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SystemStats"}}}
            }
        },
        "/api/audit": {
            "get": {
                "produces": ["application/json"],
                "tags": ["audit"],
                "summary": "Audit trail",
                "parameters": [{"type": "integer", "description": "Max events (default 50, max 500)", "name": "limit", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.auditResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "level": {"type": "string", "enum": ["admin", "gerente", "user"]},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"}
            }
        },
        "domain.SystemStats": {
            "type": "object",
            "properties": {
                "totalUsers": {"type": "integer"},
                "adminUsers": {"type": "integer"},
                "managerUsers": {"type": "integer"},
                "regularUsers": {"type": "integer"}
            }
        },
        "domain.AuditEvent": {
            "type": "object",
            "properties": {
                "action": {"type": "string"},
                "userId": {"type": "string"},
                "username": {"type": "string"},
                "actor": {"type": "string"},
                "at": {"type": "string", "format": "date-time"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["username", "password", "level"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"},
                "level": {"type": "string", "enum": ["admin", "gerente", "user", "manager", "regular"]}
            }
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/domain.User"}
            }
        },
        "handler.profileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "handler.createUserRequest": {
            "type": "object",
            "required": ["username", "password", "level"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "level": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "handler.updateUserRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "level": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "handler.listUsersResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.User"}},
                "total": {"type": "integer"}
            }
        },
        "handler.auditResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.AuditEvent"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Admin Console API",
	Description:      "Session, user management and audit endpoints of the admin console.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
