package routes

// Routes package cung cấp tất cả routing functions cho Address Resolver Service
//
// Cấu trúc:
// - api.go: API routes (/v1/*), health, metrics
// - web.go: Web routes (/, /docs)
// - middleware.go: request id, logging, rate limit
//
// Sử dụng:
// routes.SetupAllRoutes(router, addressController, adminController, opts, logger)
