package domain

import (
	"sort"
	"strings"
)

// SiteSettingsID is the fixed key of the singleton settings document.
const SiteSettingsID = "site"

const (
	SettingBusinessName = "businessName"
	SettingSlogan       = "slogan"
	SettingPhone        = "phone"
	SettingEmail        = "email"
	SettingAddress      = "address"
)

// SiteSettings is the global storefront configuration record. Known fields are
// accessed through helpers; any additional field is kept as-is.
type SiteSettings map[string]any

// DefaultSiteSettings returns the record served while nothing is persisted.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		SettingBusinessName: "DryFruto",
		SettingSlogan:       "Live With Health",
		SettingPhone:        "9876543210",
		SettingEmail:        "info@dryfruto.com",
		SettingAddress:      "Shop No. 12, Main Market, New Delhi, India",
	}
}

func (s SiteSettings) BusinessName() string { return s.str(SettingBusinessName) }
func (s SiteSettings) Slogan() string       { return s.str(SettingSlogan) }
func (s SiteSettings) Phone() string        { return s.str(SettingPhone) }
func (s SiteSettings) Email() string        { return s.str(SettingEmail) }

func (s SiteSettings) str(key string) string {
	v, _ := s[key].(string)
	return v
}

// Clone returns a shallow copy; values are JSON scalars or freshly decoded trees.
func (s SiteSettings) Clone() SiteSettings {
	out := make(SiteSettings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Sanitize drops reserved keys, operator-like keys and null values from a
// partial update. An update never removes fields, so null carries no meaning.
func (s SiteSettings) Sanitize() SiteSettings {
	out := make(SiteSettings, len(s))
	for k, v := range s {
		if k == "" || k == "id" || k == "_id" || v == nil {
			continue
		}
		if strings.HasPrefix(k, "$") || strings.Contains(k, ".") {
			continue
		}
		out[k] = v
	}
	return out
}

// Merge returns a copy of s with every field of partial applied on top.
func (s SiteSettings) Merge(partial SiteSettings) SiteSettings {
	out := s.Clone()
	for k, v := range partial {
		out[k] = v
	}
	return out
}

// Without returns a copy of s lacking the given keys.
func (s SiteSettings) Without(keys []string) SiteSettings {
	out := s.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Keys returns the field names in sorted order.
func (s SiteSettings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
