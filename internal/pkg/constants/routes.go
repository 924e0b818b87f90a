package constants

// Static route constants
const (
	PublicRoute        = "/"
	PricingRoute       = "/pricing"
	PromptsRoute       = "/prompts"
	HeaderPartialRoute = "/partials/header"
	LogoutRoute        = "/logout"
	AuthRoute          = "/auth"
	StripeWebhookRoute = "/webhooks/stripe"
	MetricsRoute       = "/metrics"
	DocsRoute          = "/docs/api"
)
