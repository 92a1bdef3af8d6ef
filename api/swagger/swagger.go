package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Capacita Compliance API",
        "description": "Training certificate issuance and regulatory reporting",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Issuance", "description": "Certificate issuance pipeline"},
        {"name": "Records", "description": "Issued compliance records"},
        {"name": "Profiles", "description": "Tenant and course compliance configuration"},
        {"name": "Reports", "description": "Periodic issuance summaries"}
    ],
    "paths": {
        "/issuance": {
            "post": {
                "tags": ["Issuance"],
                "summary": "Issue a training certificate",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IssueRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid worker identifier or payload"},
                    "409": {"description": "Not eligible, not configured or folio conflict"}
                }
            }
        },
        "/records": {
            "get": {
                "tags": ["Records"],
                "summary": "List issued records",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/records/{id}": {
            "get": {
                "tags": ["Records"],
                "summary": "Get an issued record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/records/{id}/document": {
            "get": {
                "tags": ["Records"],
                "summary": "Download the certificate document",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF bytes"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/records/{id}/revoke": {
            "post": {
                "tags": ["Records"],
                "summary": "Revoke an issued record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already revoked"}
                }
            }
        },
        "/tenants/{tenantId}/compliance-profile": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Get the tenant compliance profile",
                "parameters": [
                    {"name": "tenantId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "tags": ["Profiles"],
                "summary": "Create or update the tenant compliance profile",
                "parameters": [
                    {"name": "tenantId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertTenantProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tenants/{tenantId}/courses/{courseId}/compliance-profile": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Get a course compliance profile",
                "parameters": [
                    {"name": "tenantId", "in": "path", "required": true, "type": "string"},
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "tags": ["Profiles"],
                "summary": "Create or update a course compliance profile",
                "parameters": [
                    {"name": "tenantId", "in": "path", "required": true, "type": "string"},
                    {"name": "courseId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertCourseProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tenants/{tenantId}/enabled-courses": {
            "get": {
                "tags": ["Profiles"],
                "summary": "List courses enabled for certification",
                "parameters": [
                    {"name": "tenantId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tenants/{tenantId}/summary": {
            "get": {
                "tags": ["Reports"],
                "summary": "Generate the periodic issuance summary",
                "parameters": [
                    {"name": "tenantId", "in": "path", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid period"}
                }
            }
        }
    },
    "definitions": {
        "IssueRequest": {
            "type": "object",
            "properties": {
                "tenant_id": {"type": "string"},
                "user_id": {"type": "string"},
                "course_id": {"type": "string"}
            },
            "required": ["tenant_id", "user_id", "course_id"]
        },
        "UpsertTenantProfileRequest": {
            "type": "object",
            "properties": {
                "employer_registry_num": {"type": "string"},
                "legal_representative": {"type": "string"},
                "registered_domicile": {"type": "string"}
            }
        },
        "UpsertCourseProfileRequest": {
            "type": "object",
            "properties": {
                "enabled": {"type": "boolean"},
                "topic_area_code": {"type": "string"},
                "duration_hours": {"type": "integer"},
                "modality": {"type": "string"},
                "instructor_type": {"type": "string"},
                "instructor_name": {"type": "string"},
                "agent_registry_num": {"type": "string"},
                "min_passing_score": {"type": "number"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
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
