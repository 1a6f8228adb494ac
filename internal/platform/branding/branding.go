// Package branding centralizes product naming shared across services.
package branding

// AppName is the public product name shown in page titles and emails.
const AppName = "CosmicHub"

// Tagline is the short marketing line shown on the landing page.
const Tagline = "Charts, transits, and archetypes in one place"
