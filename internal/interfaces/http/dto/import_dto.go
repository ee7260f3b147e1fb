package dto

// ProductImportRequest are the form fields sent alongside an uploaded product CSV
type ProductImportRequest struct {
	ConflictMode string `form:"conflict_mode" binding:"omitempty,oneof=skip update fail"`
}

// DefaultConflictMode is used when the upload names none
const DefaultConflictMode = "skip"

// Mode returns the requested conflict mode or DefaultConflictMode
func (r ProductImportRequest) Mode() string {
	if r.ConflictMode == "" {
		return DefaultConflictMode
	}
	return r.ConflictMode
}
