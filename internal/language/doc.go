// Package language describes the language tags that name data-file
// projections.
//
// Tags are free-form in data.csv headers; this package checks them against
// BCP 47 and provides English display names for listings.
package language
