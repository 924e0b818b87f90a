package customer

// Kind classifies a customer operation failure.
type Kind int

const (
	KindCreation Kind = iota + 1
	KindRetrieval
	KindUpdateTargetMissing
	KindUpdate
	KindSubscriptionMismatch
)

func (k Kind) String() string {
	switch k {
	case KindCreation:
		return "creation_failure"
	case KindRetrieval:
		return "retrieval_failure"
	case KindUpdateTargetMissing:
		return "update_target_missing"
	case KindUpdate:
		return "update_failure"
	case KindSubscriptionMismatch:
		return "subscription_mismatch"
	default:
		return "unknown"
	}
}

// Error is the caller-facing failure of a customer operation. It carries a
// user-safe message only; storage detail is logged and dropped.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrUpdateTargetMissing)
// holds for both the user id and the Stripe customer id variants.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrCreationFailure     = &Error{Kind: KindCreation, Message: "failed to create customer"}
	ErrRetrievalFailure    = &Error{Kind: KindRetrieval, Message: "failed to get customer"}
	ErrUpdateTargetMissing = &Error{Kind: KindUpdateTargetMissing, Message: "customer not found to update"}
	ErrUpdateFailure       = &Error{Kind: KindUpdate, Message: "failed to update customer"}

	// ErrSubscriptionMismatch reports an update for a subscription the customer no longer holds.
	ErrSubscriptionMismatch = &Error{Kind: KindSubscriptionMismatch, Message: "customer holds a different subscription"}

	errStripeTargetMissing = &Error{Kind: KindUpdateTargetMissing, Message: "customer not found by Stripe customer ID"}
	errStripeUpdateFailure = &Error{Kind: KindUpdate, Message: "failed to update customer by Stripe customer ID"}
)
