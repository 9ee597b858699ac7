package viewmodel

import (
	"github.com/civiclens-app/CivicLens/app/models"
)

const dateLayout = "2006-01-02"

// Resolution is the closure record as exposed by the listing API.
type Resolution struct {
	DateOfResolution string `json:"date_of_resolution"`
	Image            string `json:"image"`
	Remarks          string `json:"remarks"`
}

// Report is the read-only aggregate view of a report: its attributes, the
// image references of every folded submission and the resolution when the
// report has been completed. Contributing user identifiers never appear
// here; membership filtering happens in the store query.
type Report struct {
	ID           uint              `json:"id"`
	DateOfReport string            `json:"date_of_report"`
	Category     models.Category   `json:"category"`
	Department   models.Department `json:"department,omitempty"`
	Description  string            `json:"description"`
	Count        int               `json:"count"`
	Status       models.Status     `json:"status"`
	Lat          float64           `json:"lat"`
	Lon          float64           `json:"lon"`
	Images       []string          `json:"images"`
	Resolved     *Resolution       `json:"resolved,omitempty"`
}

// FromReport projects one report with its preloaded associations.
func FromReport(r models.Report) Report {
	images := make([]string, 0, len(r.Submissions))
	for _, sub := range r.Submissions {
		images = append(images, sub.ImageName)
	}

	view := Report{
		ID:           r.ID,
		DateOfReport: r.DateOfReport.Format(dateLayout),
		Category:     r.Category,
		Department:   r.Department,
		Description:  r.Description,
		Count:        r.Count,
		Status:       r.Status,
		Lat:          r.Latitude,
		Lon:          r.Longitude,
		Images:       images,
	}
	if r.Resolution != nil {
		view.Resolved = &Resolution{
			DateOfResolution: r.Resolution.DateOfResolution.Format(dateLayout),
			Image:            r.Resolution.Image,
			Remarks:          r.Resolution.Remarks,
		}
	}
	return view
}

// FromReports projects a listing.
func FromReports(reports []models.Report) []Report {
	views := make([]Report, 0, len(reports))
	for _, r := range reports {
		views = append(views, FromReport(r))
	}
	return views
}
