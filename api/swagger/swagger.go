package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Admissions API",
        "description": "Enrollment intake, admin exports, and public site content",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Enrollment", "description": "Public enrollment intake wizard"},
        {"name": "Courses", "description": "Course catalogue"},
        {"name": "Content", "description": "Public site content"},
        {"name": "Contact", "description": "Contact form"},
        {"name": "Admin", "description": "Authenticated back office"}
    ],
    "paths": {
        "/courses": {
            "get": {
                "tags": ["Courses"],
                "summary": "List active courses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/hero-carousel": {
            "get": {
                "tags": ["Content"],
                "summary": "List active hero carousel slides",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/news-events": {
            "get": {
                "tags": ["Content"],
                "summary": "List active news and events",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/testimonials": {
            "get": {
                "tags": ["Content"],
                "summary": "List active testimonials",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/contact": {
            "post": {
                "tags": ["Contact"],
                "summary": "Submit a contact form message",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ContactRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Submit a completed enrollment",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "name", "in": "formData", "type": "string", "required": true},
                    {"name": "address", "in": "formData", "type": "string", "required": true},
                    {"name": "phone", "in": "formData", "type": "string", "required": true},
                    {"name": "email", "in": "formData", "type": "string", "required": true},
                    {"name": "date_of_birth", "in": "formData", "type": "string", "required": true},
                    {"name": "nationality", "in": "formData", "type": "string", "required": true},
                    {"name": "languages", "in": "formData", "type": "string", "required": true},
                    {"name": "marital_status", "in": "formData", "type": "string", "required": true},
                    {"name": "church_name", "in": "formData", "type": "string", "required": true},
                    {"name": "church_position", "in": "formData", "type": "string"},
                    {"name": "pastor_overseer_awareness", "in": "formData", "type": "string", "required": true},
                    {"name": "previous_bible_school", "in": "formData", "type": "string", "required": true},
                    {"name": "course_id", "in": "formData", "type": "string"},
                    {"name": "course_title", "in": "formData", "type": "string"},
                    {"name": "e_signature", "in": "formData", "type": "file", "required": true},
                    {"name": "photo_copy", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/phone-check": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Per-keystroke phone number check",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PhoneCheckRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/validate/step1": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Validate the personal information step",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/validate/step2": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Validate the church and training step",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/enrollments/validate/step3": {
            "post": {
                "tags": ["Enrollment"],
                "summary": "Validate the document uploads",
                "consumes": ["multipart/form-data"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/enrollments": {
            "get": {
                "tags": ["Admin"],
                "summary": "List enrollments",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "read", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/enrollments/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export the enrollment list as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV download"}
                }
            }
        },
        "/admin/enrollments/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get one enrollment, marking it read",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete an enrollment and its stored documents",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/enrollments/{id}/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export one enrollment as PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF download"}
                }
            }
        },
        "/admin/hero-carousel": {
            "get": {
                "tags": ["Admin"],
                "summary": "List all hero carousel slides",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create a hero carousel slide",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "title", "in": "formData", "type": "string"},
                    {"name": "order_index", "in": "formData", "type": "integer"},
                    {"name": "is_active", "in": "formData", "type": "boolean"},
                    {"name": "image", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/hero-carousel/{id}": {
            "put": {
                "tags": ["Admin"],
                "summary": "Update a hero carousel slide",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete a hero carousel slide",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/news-events": {
            "post": {
                "tags": ["Admin"],
                "summary": "Create a news/event entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertNewsEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/news-events/{id}": {
            "put": {
                "tags": ["Admin"],
                "summary": "Update a news/event entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertNewsEventRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete a news/event entry",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/testimonials": {
            "post": {
                "tags": ["Admin"],
                "summary": "Create a testimonial",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertTestimonialRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/testimonials/{id}": {
            "put": {
                "tags": ["Admin"],
                "summary": "Update a testimonial",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertTestimonialRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete a testimonial",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/contact-submissions": {
            "get": {
                "tags": ["Admin"],
                "summary": "List contact submissions",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/contact-submissions/{id}": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete a contact submission",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/contact-submissions/{id}/read": {
            "post": {
                "tags": ["Admin"],
                "summary": "Mark a contact submission as read",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "PhoneCheckRequest": {
            "type": "object",
            "properties": {
                "phone": {"type": "string"}
            },
            "required": ["phone"]
        },
        "ContactRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "message": {"type": "string"},
                "course_type": {"type": "string"},
                "selected_course": {"type": "string"}
            },
            "required": ["name", "email", "message"]
        },
        "UpsertNewsEventRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string"},
                "image_url": {"type": "string"},
                "read_more_link": {"type": "string"},
                "start_time": {"type": "string"},
                "is_active": {"type": "boolean"}
            },
            "required": ["title", "description", "date"]
        },
        "UpsertTestimonialRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "author": {"type": "string"},
                "title": {"type": "string"},
                "avatar_url": {"type": "string"},
                "order_index": {"type": "integer"},
                "is_active": {"type": "boolean"}
            },
            "required": ["text", "author"]
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
