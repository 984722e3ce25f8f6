package client

const (
	// API version prefix
	apiV1Prefix = "/api/v1"

	// Machine endpoints
	endpointMachines     = apiV1Prefix + "/machines"          // GET - list machines
	endpointMachineFiles = apiV1Prefix + "/machines/%s/files" // GET - list imported files

	// Chat and export endpoints
	endpointChat      = apiV1Prefix + "/chat"       // POST - analysis query
	endpointExportPDF = apiV1Prefix + "/export-pdf" // POST - PDF download
)
