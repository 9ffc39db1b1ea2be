// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package alphafold

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/httputil"
)

// ErrInvalidIdentifier is returned, before any network call, for an empty
// or malformed identifier.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// ErrRemoteRequestFailed matches every error caused by the remote service
// refusing or failing a request.
var ErrRemoteRequestFailed = httputil.ErrRemoteRequestFailed

// identifierPattern admits UniProt accessions ("P69905"), entry ids
// ("AF-P69905-F1"), UniProt entry names ("HBA_HUMAN") and sequence
// checksums. Anything that could alter the request path is rejected.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:-]{0,63}$`)

// uniprotAccessionPattern is the UniProt accession format.
var uniprotAccessionPattern = regexp.MustCompile(`^(?:[OPQ][0-9][A-Z0-9]{3}[0-9]|[A-NR-Z][0-9](?:[A-Z][A-Z0-9]{2}[0-9]){1,2})$`)

// ValidateIdentifier trims id and checks that it is usable as a prediction
// qualifier. It returns the trimmed form.
func ValidateIdentifier(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	if !identifierPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return id, nil
}

// IsUniProtAccession reports whether id has the UniProt accession format.
func IsUniProtAccession(id string) bool {
	return uniprotAccessionPattern.MatchString(strings.TrimSpace(id))
}
