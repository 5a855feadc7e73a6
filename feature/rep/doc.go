// Package rep classifies free text into the closed set of participant affiliations.
package rep
