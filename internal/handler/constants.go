// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteAPI is the mount point of the content API.
	RouteAPI = "/api/v2"

	// RoutePages is the page listing below RouteAPI.
	RoutePages = "/pages/"
	// RoutePagesID is the page detail below RouteAPI.
	RoutePagesID = "/pages/{id}/"
	// RouteImages is the image listing below RouteAPI.
	RouteImages = "/images/"
	// RouteImagesID is the image detail below RouteAPI.
	RouteImagesID = "/images/{id}/"
	// RouteDocuments is the document listing below RouteAPI.
	RouteDocuments = "/documents/"
	// RouteDocumentsID is the document detail below RouteAPI.
	RouteDocumentsID = "/documents/{id}/"

	// RouteMediaFiles serves image originals and renditions.
	RouteMediaFiles = "/media/*"
	// RouteDocumentFile serves a document's bytes.
	RouteDocumentFile = "/documents/{id}/{filename}"

	RouteHealth      = "/health"
	RouteHealthLive  = "/health/live"
	RouteHealthReady = "/health/ready"
	RouteMetrics     = "/metrics"
)
