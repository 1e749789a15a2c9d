// Package main QuickAI Server API
//
//	@title						QuickAI Server API
//	@version					1.0
//	@description				AI content generation with a free-tier quota and a premium plan.
//
//	@contact.name				QuickAI Support
//
//	@license.name				Proprietary
//
//	@host						localhost:8080
//	@BasePath					/api
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					AI
//	@tag.description			Generation and image editing operations
//
//	@tag.name					Creations
//	@tag.description			Saved creations and community feed
//
//	@tag.name					Account
//	@tag.description			Plan and usage
//
//	@tag.name					Billing
//	@tag.description			Premium subscription
package main
