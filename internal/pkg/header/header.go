// Package header computes what the navigation header shows for a request.
package header

import (
	"net/url"
	"strings"
)

const (
	// DisabledLink is the inert href used when no checkout link can be built.
	DisabledLink = "#"
	// DefaultSignInPath starts the OAuth flow with the default provider.
	DefaultSignInPath = "/auth/google"
)

// Branch is the auth/membership dependent part of the header.
type Branch int

const (
	// BranchSignedOut shows the sign-in control.
	BranchSignedOut Branch = iota
	// BranchPending shows a placeholder while the membership is unknown.
	BranchPending
	// BranchPro shows the PRO badge.
	BranchPro
	// BranchUpgrade shows the upgrade link.
	BranchUpgrade
)

func (b Branch) String() string {
	switch b {
	case BranchSignedOut:
		return "signed_out"
	case BranchPending:
		return "pending"
	case BranchPro:
		return "pro"
	case BranchUpgrade:
		return "upgrade"
	default:
		return "unknown"
	}
}

type NavItem struct {
	Name   string
	Href   string
	Active bool
}

var navItems = []NavItem{
	{Name: "Home", Href: "/"},
	{Name: "Pricing", Href: "/pricing"},
	{Name: "Prompts", Href: "/prompts"},
}

// Input is everything the header depends on.
type Input struct {
	Path            string
	SignedIn        bool
	UserID          string
	Username        string
	IsPro           bool
	Loading         bool
	CheckoutBaseURL string
	SignInPath      string
}

type State struct {
	Branch       Branch
	Nav          []NavItem
	Username     string
	CheckoutLink string
	SignInPath   string
}

// UpgradeEnabled reports whether the upgrade link navigates anywhere.
func (s State) UpgradeEnabled() bool {
	return s.CheckoutLink != DisabledLink
}

// Resolve maps the request state onto a header state.
func Resolve(in Input) State {
	nav := make([]NavItem, len(navItems))
	for i, item := range navItems {
		item.Active = in.Path == item.Href
		nav[i] = item
	}

	s := State{Nav: nav, CheckoutLink: DisabledLink, SignInPath: in.SignInPath}
	if s.SignInPath == "" {
		s.SignInPath = DefaultSignInPath
	}
	switch {
	case !in.SignedIn:
		s.Branch = BranchSignedOut
		return s
	case in.Loading:
		s.Branch = BranchPending
	case in.IsPro:
		s.Branch = BranchPro
	default:
		s.Branch = BranchUpgrade
		s.CheckoutLink = CheckoutLink(in.CheckoutBaseURL, in.UserID)
	}
	s.Username = in.Username
	return s
}

// CheckoutLink appends the user as client_reference_id to the checkout base
// URL so the completed checkout can be matched to the account. It returns
// DisabledLink when either part is missing or the base URL is not absolute.
func CheckoutLink(baseURL, userID string) string {
	baseURL = strings.TrimSpace(baseURL)
	userID = strings.TrimSpace(userID)
	if baseURL == "" || userID == "" {
		return DisabledLink
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return DisabledLink
	}
	q := u.Query()
	q.Set("client_reference_id", userID)
	u.RawQuery = q.Encode()
	return u.String()
}
