package domain

import (
	"fmt"
	"strings"
)

// FileType identifies the source format of an imported price list.
type FileType string

const (
	FileExcel FileType = "excel"
	FilePDF   FileType = "pdf"
	FileJSON  FileType = "json"
	FileXML   FileType = "xml"
	FileHTML  FileType = "html"
)

// FileTypeFor maps a file name's extension to a FileType. Unsupported
// extensions return false; the import flow then returns to its initial state
// with no partial state retained.
func FileTypeFor(fileName string) (FileType, bool) {
	i := strings.LastIndexByte(fileName, '.')
	if i < 0 {
		return "", false
	}
	switch strings.ToLower(fileName[i+1:]) {
	case "xls", "xlsx", "csv":
		return FileExcel, true
	case "pdf":
		return FilePDF, true
	case "json":
		return FileJSON, true
	case "xml":
		return FileXML, true
	case "html", "htm":
		return FileHTML, true
	}
	return "", false
}

// ImportPreview is the transient staging shape every format normalizes to.
// It is never persisted: created by the normalizer, consumed exactly once by
// the validation gate, then discarded.
type ImportPreview struct {
	PersonCategories []PersonCategory  `json:"personCategories"`
	RoomTypePricing  []RoomTypePricing `json:"roomTypePricing"`
	Warnings         []string          `json:"warnings"`
	Errors           []string          `json:"errors"`
}

// ValidateImportPreview runs the format-agnostic business rules over a
// preview and returns the blocking errors. Softer findings land in the
// returned warnings. knownRoomTypes may be nil when the caller has no room
// type directory; unknown room types then go unreported.
//
// Nothing is silently dropped: every rejected item appears in the result.
func ValidateImportPreview(p ImportPreview, knownRoomTypes map[string]bool) (errs, warns []string) {
	if err := ValidateCategories(p.PersonCategories); err != nil {
		errs = append(errs, err.Error())
	}
	known := CategoryIndex(p.PersonCategories)

	if len(p.RoomTypePricing) == 0 {
		warns = append(warns, "import carries no room type pricing; untouched room types keep their current rules")
	}

	for _, rtp := range p.RoomTypePricing {
		if knownRoomTypes != nil && !knownRoomTypes[rtp.RoomTypeID] {
			warns = append(warns, fmt.Sprintf("room type %q is not known to this property; it may be added later", rtp.RoomTypeID))
		}
		seen := map[string]string{}
		for _, r := range rtp.PricingRules {
			for _, o := range r.BedAssignment {
				if _, ok := known[o.PersonCategory]; !ok {
					errs = append(errs, fmt.Sprintf("room type %s: rule %s references category code %q not present in personCategories",
						rtp.RoomTypeID, r.ID, o.PersonCategory))
				}
			}
			if !FinitePrice(r.BasePrice) {
				errs = append(errs, fmt.Sprintf("room type %s: rule %s has invalid basePrice %v; prices must be finite and non-negative",
					rtp.RoomTypeID, r.ID, r.BasePrice))
			}
			adults := 0
			for _, o := range r.BedAssignment {
				if o.PersonCategory == CodeAdult {
					adults++
				}
			}
			if adults == 0 && len(r.BedAssignment) > 0 {
				warns = append(warns, fmt.Sprintf("room type %s: rule %s prices an occupancy without adults; it will never be generated automatically",
					rtp.RoomTypeID, r.ID))
			}
			key := r.BedAssignment.CanonicalKey()
			if prev, dup := seen[key]; dup {
				errs = append(errs, fmt.Sprintf("room type %s: rules %s and %s price the same occupancy variant %s; pricing is ambiguous",
					rtp.RoomTypeID, prev, r.ID, key))
			} else {
				seen[key] = r.ID
			}
		}
	}
	return errs, warns
}
