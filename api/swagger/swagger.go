package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Horarios API",
        "description": "Professor time-slot preference collection",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "in": "header",
            "name": "Authorization"
        }
    },
    "tags": [
        {
            "name": "Auth",
            "description": "Portal token and legacy hash login"
        },
        {
            "name": "Preferences",
            "description": "Weekly time-slot preferences"
        },
        {
            "name": "Catalog",
            "description": "Blocks, subjects and shifts"
        },
        {
            "name": "Admin",
            "description": "Administrator reports and exports"
        },
        {
            "name": "Health",
            "description": "Probes and metrics"
        }
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness probe",
                "tags": [
                    "Health"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    }
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness probe",
                "tags": [
                    "Health"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "503": {
                        "description": "Database unreachable",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "tags": [
                    "Health"
                ],
                "responses": {
                    "200": {
                        "description": "Prometheus exposition"
                    }
                }
            }
        },
        "/": {
            "get": {
                "summary": "Entry point accepting a portal token or a legacy hash",
                "tags": [
                    "Auth"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "token",
                        "type": "string",
                        "required": false,
                        "description": "Portal token"
                    },
                    {
                        "in": "query",
                        "name": "hash",
                        "type": "string",
                        "required": false,
                        "description": "Legacy hex-pair code"
                    }
                ],
                "responses": {
                    "302": {
                        "description": "Session established, redirect to /preferences"
                    },
                    "400": {
                        "description": "Missing token or payload",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Authentication failed or token expired",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Invalid token or audience",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/auth": {
            "get": {
                "summary": "Authenticate with a portal token",
                "tags": [
                    "Auth"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "token",
                        "type": "string",
                        "required": true,
                        "description": "Portal token"
                    }
                ],
                "responses": {
                    "302": {
                        "description": "Session established, redirect to /preferences"
                    },
                    "200": {
                        "description": "JSON redirect when Accept is application/json",
                        "schema": {
                            "$ref": "#/definitions/AuthRedirectResponse"
                        }
                    },
                    "400": {
                        "description": "Missing token or payload",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Expired token",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Invalid token or audience",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/logout": {
            "post": {
                "summary": "Revoke the session and clear the cookie",
                "tags": [
                    "Auth"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                }
            }
        },
        "/preferences": {
            "get": {
                "summary": "Preference form data for the session professor",
                "tags": [
                    "Preferences"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/PreferencesView"
                        }
                    },
                    "401": {
                        "description": "No session or professor not registered",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "No shifts assigned",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/submit": {
            "post": {
                "summary": "Replace the session professor's preferences",
                "tags": [
                    "Preferences"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SubmitPreferencesRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/SubmitPreferencesResponse"
                        }
                    },
                    "400": {
                        "description": "Missing or malformed preferences",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "No session",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Unknown professor",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "422": {
                        "description": "Unknown schedule block",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/blocks": {
            "get": {
                "summary": "List schedule blocks",
                "tags": [
                    "Catalog"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "turno",
                        "type": "string",
                        "required": false,
                        "description": "Shift name filter"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/subjects": {
            "get": {
                "summary": "List subjects",
                "tags": [
                    "Catalog"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/shifts": {
            "get": {
                "summary": "List shifts",
                "tags": [
                    "Catalog"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/assignments": {
            "get": {
                "summary": "Subjects and shifts assigned to the session professor",
                "tags": [
                    "Catalog"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admin/login": {
            "post": {
                "summary": "Administrator login",
                "tags": [
                    "Admin"
                ],
                "parameters": [
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AdminLoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "401": {
                        "description": "Invalid credentials",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "403": {
                        "description": "Not an administrator",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/admin/professors": {
            "get": {
                "summary": "Professors with submission progress",
                "tags": [
                    "Admin"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admin/professors/{id}/preferences": {
            "get": {
                "summary": "Stored preferences of a professor",
                "tags": [
                    "Admin"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Professor id (cedula)"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admin/professors/{id}/export": {
            "get": {
                "summary": "Export a professor's preference grid",
                "tags": [
                    "Admin"
                ],
                "parameters": [
                    {
                        "in": "path",
                        "name": "id",
                        "type": "string",
                        "required": true,
                        "description": "Professor id (cedula)"
                    },
                    {
                        "in": "query",
                        "name": "format",
                        "type": "string",
                        "required": false,
                        "description": "csv or pdf"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "CSV or PDF file"
                    },
                    "400": {
                        "description": "Unsupported format",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "404": {
                        "description": "Unknown professor",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admin/preferences/export": {
            "get": {
                "summary": "Export every stored preference",
                "tags": [
                    "Admin"
                ],
                "parameters": [
                    {
                        "in": "query",
                        "name": "format",
                        "type": "string",
                        "required": false,
                        "description": "csv or pdf"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "CSV or PDF file"
                    },
                    "400": {
                        "description": "Unsupported format",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/admin/metrics": {
            "get": {
                "summary": "Process metrics summary",
                "tags": [
                    "Admin"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "SubmitPreferencesRequest": {
            "type": "object",
            "required": [
                "preferences"
            ],
            "properties": {
                "preferences": {
                    "type": "object",
                    "description": "Map of block id to priority (0-3). The list of {bloque_horario_id, valor_prioridad} is accepted as a deprecated shape.",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "min_dias": {
                    "type": "boolean"
                }
            }
        },
        "SubmitPreferencesResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "AuthRedirectResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean"
                },
                "redirect": {
                    "type": "string"
                }
            }
        },
        "ScheduleBlockView": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer"
                },
                "dia": {
                    "type": "string"
                },
                "hora_inicio": {
                    "type": "string"
                },
                "hora_fin": {
                    "type": "string"
                },
                "preference": {
                    "type": "integer"
                }
            }
        },
        "SubjectView": {
            "type": "object",
            "properties": {
                "codigo": {
                    "type": "string"
                },
                "nombre": {
                    "type": "string"
                },
                "nombre_completo": {
                    "type": "string"
                }
            }
        },
        "PreferencesView": {
            "type": "object",
            "properties": {
                "ci": {
                    "type": "string"
                },
                "professor_name": {
                    "type": "string"
                },
                "min_max_dias": {
                    "type": "boolean"
                },
                "materias_asignadas": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/SubjectView"
                    }
                },
                "turnos_asignados": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "bloques_turno": {
                    "type": "array",
                    "items": {
                        "type": "integer"
                    }
                },
                "bloques_horarios": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/ScheduleBlockView"
                    }
                },
                "last_modified": {
                    "type": "string"
                }
            }
        },
        "AdminLoginRequest": {
            "type": "object",
            "required": [
                "email",
                "password"
            ],
            "properties": {
                "email": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
            }
        }
    }
}`

// SwaggerInfo describes the served document.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Horarios API",
	Description:      "Professor time-slot preference collection",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
