package dto

type RootResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseDriver   string   `json:"database_driver"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

type SchemaResponse struct {
	Collections []string `json:"collections"`
}

type SeedResponse struct {
	Seeded   bool  `json:"seeded"`
	Users    int64 `json:"users"`
	Projects int64 `json:"projects"`
}
