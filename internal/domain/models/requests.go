package models

// Requests for the form, JSON and WebSocket endpoints.

type PredictRequest struct {
	Input         string `json:"input" form:"input" query:"input"`
	TanggalTarget string `json:"tanggal_target" form:"tanggal_target"`
	HargaOpen     string `json:"harga_open" form:"harga_open"`
}

// Raw returns the field that carries the feature for kind, falling back to the generic input.
func (r *PredictRequest) Raw(kind FeatureKind) string {
	switch kind {
	case FeatureDate:
		if r.TanggalTarget != "" {
			return r.TanggalTarget
		}
	case FeatureOpen:
		if r.HargaOpen != "" {
			return r.HargaOpen
		}
	}
	return r.Input
}

type RecentRequest struct {
	N int `query:"n" json:"n" default:"20" validate:"gte=1,lte=500"`
}

// SeriesRequest.MA overrides the overlay period; nil keeps the configured one and 0 disables it.
type SeriesRequest struct {
	MA *int `query:"ma" json:"ma" validate:"omitempty,gte=0,lte=250"`
}
