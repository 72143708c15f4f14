package handlers

import "dailywage-hub/internal/pkg/validator"

// Request body schemas
var (
	registerSchema = validator.MustCompile(`{
		"type": "object",
		"required": ["username", "password", "role", "name"],
		"properties": {
			"username":   {"type": "string", "minLength": 3, "maxLength": 50},
			"password":   {"type": "string", "minLength": 8, "maxLength": 72},
			"role":       {"type": "string", "enum": ["worker", "employer", "ngo", "admin"]},
			"name":       {"type": "string", "minLength": 1, "maxLength": 100},
			"phone":      {"type": "string", "maxLength": 20},
			"language":   {"type": "string", "maxLength": 10},
			"location":   {"type": "string", "maxLength": 200},
			"latitude":   {"type": "number", "minimum": -90, "maximum": 90},
			"longitude":  {"type": "number", "minimum": -180, "maximum": 180},
			"skills":     {"type": "array", "items": {"type": "string"}},
			"nationalId": {"type": "string", "maxLength": 30}
		}
	}`)

	loginSchema = validator.MustCompile(`{
		"type": "object",
		"required": ["username", "password"],
		"properties": {
			"username": {"type": "string", "minLength": 1},
			"password": {"type": "string", "minLength": 1}
		}
	}`)

	updateProfileSchema = validator.MustCompile(`{
		"type": "object",
		"properties": {
			"name":      {"type": "string", "minLength": 1, "maxLength": 100},
			"phone":     {"type": "string", "maxLength": 20},
			"language":  {"type": "string", "maxLength": 10},
			"location":  {"type": "string", "maxLength": 200},
			"latitude":  {"type": "number", "minimum": -90, "maximum": 90},
			"longitude": {"type": "number", "minimum": -180, "maximum": 180},
			"skills":    {"type": "array", "items": {"type": "string"}}
		}
	}`)

	changePasswordSchema = validator.MustCompile(`{
		"type": "object",
		"required": ["oldPassword", "newPassword"],
		"properties": {
			"oldPassword": {"type": "string", "minLength": 1},
			"newPassword": {"type": "string", "minLength": 8, "maxLength": 72}
		}
	}`)

	createJobSchema = validator.MustCompile(`{
		"type": "object",
		"required": ["title", "workType", "location", "wageAmount", "wageUnit"],
		"properties": {
			"title":          {"type": "string", "minLength": 1, "maxLength": 200},
			"description":    {"type": "string"},
			"workType":       {"type": "string", "minLength": 1, "maxLength": 50},
			"location":       {"type": "string", "minLength": 1, "maxLength": 200},
			"latitude":       {"type": "number", "minimum": -90, "maximum": 90},
			"longitude":      {"type": "number", "minimum": -180, "maximum": 180},
			"wageAmount":     {"type": "integer", "minimum": 1, "maximum": 10000000},
			"wageUnit":       {"type": "string", "enum": ["daily", "hourly", "fixed"]},
			"workersNeeded":  {"type": "integer", "minimum": 1, "maximum": 1000},
			"requiredSkills": {"type": "array", "items": {"type": "string"}}
		}
	}`)

	jobStatusSchema = validator.MustCompile(`{
		"type": "object",
		"required": ["status"],
		"properties": {
			"status": {"type": "string", "enum": ["open", "in_progress", "awaiting_payment", "paid", "completed", "cancelled"]}
		}
	}`)

	assignSchema = validator.MustCompile(`{
		"type": "object",
		"required": ["workerId"],
		"properties": {
			"workerId": {"type": "string", "pattern": "^[0-9a-fA-F-]{36}$"}
		}
	}`)

	applySchema = validator.MustCompile(`{
		"type": "object",
		"required": ["jobId"],
		"properties": {
			"jobId":    {"type": "string", "pattern": "^[0-9a-fA-F-]{36}$"},
			"workerId": {"type": "string", "pattern": "^[0-9a-fA-F-]{36}$"},
			"message":  {"type": "string", "maxLength": 2000}
		}
	}`)

	applicationStatusSchema = validator.MustCompile(`{
		"type": "object",
		"required": ["status"],
		"properties": {
			"status": {"type": "string", "enum": ["accepted", "rejected", "withdrawn"]}
		}
	}`)

	sendMessageSchema = validator.MustCompile(`{
		"type": "object",
		"required": ["senderId", "receiverId", "content"],
		"properties": {
			"senderId":   {"type": "string", "pattern": "^[0-9a-fA-F-]{36}$"},
			"receiverId": {"type": "string", "pattern": "^[0-9a-fA-F-]{36}$"},
			"jobId":      {"type": "string", "pattern": "^[0-9a-fA-F-]{36}$"},
			"content":    {"type": "string", "minLength": 1, "maxLength": 5000}
		}
	}`)

	createOrderSchema = validator.MustCompile(`{
		"type": "object",
		"required": ["jobId"],
		"properties": {
			"jobId": {"type": "string", "pattern": "^[0-9a-fA-F-]{36}$"}
		}
	}`)

	verifyPaymentSchema = validator.MustCompile(`{
		"type": "object",
		"required": ["razorpayOrderId", "razorpayPaymentId", "razorpaySignature"],
		"properties": {
			"razorpayOrderId":   {"type": "string", "minLength": 1},
			"razorpayPaymentId": {"type": "string", "minLength": 1},
			"razorpaySignature": {"type": "string", "minLength": 1}
		}
	}`)

	offlineCheckoutSchema = validator.MustCompile(`{
		"type": "object",
		"required": ["razorpayOrderId"],
		"properties": {
			"razorpayOrderId": {"type": "string", "minLength": 1}
		}
	}`)

	paymentFailedSchema = validator.MustCompile(`{
		"type": "object",
		"required": ["razorpayOrderId"],
		"properties": {
			"razorpayOrderId": {"type": "string", "minLength": 1},
			"reason":          {"type": "string", "maxLength": 500}
		}
	}`)
)
