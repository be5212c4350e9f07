// Package swagger registers the OpenAPI document served under /docs.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "API de Gestión Académica",
        "description": "Cursos y docentes del Instituto Tecnológico San Juan",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http"],
    "tags": [
        {"name": "Cursos", "description": "Gestión de cursos"},
        {"name": "Docentes", "description": "Consulta de docentes"},
        {"name": "System", "description": "Estado del servicio"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["System"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "Ready", "schema": {"$ref": "#/definitions/Envelope"}},
                    "503": {"description": "Database unavailable", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/api/cursos": {
            "get": {
                "tags": ["Cursos"],
                "summary": "List cursos ordered by ciclo then name",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CursoListEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Cursos"],
                "summary": "Create curso",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCursoRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/CursoEnvelope"}},
                    "400": {"description": "Validation failed or docente does not exist", "schema": {"$ref": "#/definitions/Envelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/api/cursos/summary": {
            "get": {
                "tags": ["Cursos"],
                "summary": "Course counters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}}}
            }
        },
        "/api/cursos/export": {
            "get": {
                "tags": ["Cursos"],
                "summary": "Export cursos as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "required": true, "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "ciclo", "in": "query", "required": false, "type": "integer", "minimum": 1, "maximum": 10}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Invalid parameters", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/api/cursos/ciclo/{ciclo}": {
            "get": {
                "tags": ["Cursos"],
                "summary": "List cursos of one ciclo ordered by name",
                "parameters": [
                    {"name": "ciclo", "in": "path", "required": true, "type": "integer", "minimum": 1, "maximum": 10}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CursoListEnvelope"}},
                    "400": {"description": "Invalid ciclo", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/api/cursos/{id}": {
            "get": {
                "tags": ["Cursos"],
                "summary": "Get curso",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CursoEnvelope"}},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Curso no encontrado", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "put": {
                "tags": ["Cursos"],
                "summary": "Update curso (partial)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCursoRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CursoEnvelope"}},
                    "400": {"description": "Validation failed or docente does not exist", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Curso no encontrado", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "delete": {
                "tags": ["Cursos"],
                "summary": "Delete curso",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Envelope"}},
                    "400": {"description": "Invalid id", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/api/docentes": {
            "get": {
                "tags": ["Docentes"],
                "summary": "List docentes ordered by apellidos",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DocenteListEnvelope"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "Docente": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "apellidos": {"type": "string"},
                "nombres": {"type": "string"},
                "profesion": {"type": "string"},
                "fecha_nacimiento": {"type": "string", "format": "date"},
                "correo": {"type": "string", "format": "email"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "Curso": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "curso": {"type": "string"},
                "creditos": {"type": "integer"},
                "hora_semanal": {"type": "integer"},
                "ciclo": {"type": "integer"},
                "id_docente": {"type": "string", "format": "uuid"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "CursoWithDocente": {
            "allOf": [
                {"$ref": "#/definitions/Curso"},
                {"type": "object", "properties": {"docente": {"$ref": "#/definitions/Docente"}}}
            ]
        },
        "CreateCursoRequest": {
            "type": "object",
            "required": ["curso", "creditos", "hora_semanal", "ciclo", "id_docente"],
            "properties": {
                "curso": {"type": "string", "minLength": 3, "maxLength": 100},
                "creditos": {"type": "integer", "minimum": 1, "maximum": 10},
                "hora_semanal": {"type": "integer", "minimum": 1, "maximum": 20},
                "ciclo": {"type": "integer", "minimum": 1, "maximum": 10},
                "id_docente": {"type": "string", "format": "uuid"}
            }
        },
        "UpdateCursoRequest": {
            "type": "object",
            "properties": {
                "curso": {"type": "string", "minLength": 3, "maxLength": 100},
                "creditos": {"type": "integer", "minimum": 1, "maximum": 10},
                "hora_semanal": {"type": "integer", "minimum": 1, "maximum": 20},
                "ciclo": {"type": "integer", "minimum": 1, "maximum": 10},
                "id_docente": {"type": "string", "format": "uuid"}
            }
        },
        "Envelope": {
            "type": "object",
            "required": ["success"],
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "message": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "CursoEnvelope": {
            "allOf": [
                {"$ref": "#/definitions/Envelope"},
                {"type": "object", "properties": {"data": {"$ref": "#/definitions/CursoWithDocente"}}}
            ]
        },
        "CursoListEnvelope": {
            "allOf": [
                {"$ref": "#/definitions/Envelope"},
                {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/CursoWithDocente"}}}}
            ]
        },
        "DocenteListEnvelope": {
            "allOf": [
                {"$ref": "#/definitions/Envelope"},
                {"type": "object", "properties": {"data": {"type": "array", "items": {"$ref": "#/definitions/Docente"}}}}
            ]
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
