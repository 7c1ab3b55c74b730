package models

var audioFeaturesFields = []string{
	"acousticness", "analysis_url", "danceability", "duration_ms", "energy", "id", "instrumentalness", "key",
	"liveness", "loudness", "mode", "speechiness", "tempo", "time_signature", "track_href", "type", "uri", "valence",
}

// AudioFeatures are the audio analysis attributes of a track.
type AudioFeatures struct {
	Acousticness     float64  `json:"acousticness"`
	AnalysisURL      string   `json:"analysis_url"`
	Danceability     float64  `json:"danceability"`
	Duration         Duration `json:"duration_ms"`
	Energy           float64  `json:"energy"`
	ID               string   `json:"id"`
	Instrumentalness float64  `json:"instrumentalness"`
	Key              int      `json:"key"`
	Liveness         float64  `json:"liveness"`
	Loudness         float64  `json:"loudness"`
	Mode             int      `json:"mode"`
	Speechiness      float64  `json:"speechiness"`
	Tempo            float64  `json:"tempo"`
	TimeSignature    int      `json:"time_signature"`
	TrackHref        string   `json:"track_href"`
	Type             Type     `json:"type"`
	URI              string   `json:"uri"`
	Valence          float64  `json:"valence"`
}

func (f *AudioFeatures) UnmarshalJSON(data []byte) error {
	type alias AudioFeatures
	return decodeObject(data, (*alias)(f), "audio features", audioFeaturesFields)
}
