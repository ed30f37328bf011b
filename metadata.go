package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// loadIngestionSpecs reads the active ingestion specs from the control table,
// ordered by name. The SOURCE and TARGET columns hold JSON-encoded endpoints;
// an endpoint missing its database or table key fails the run immediately
// rather than surfacing later as a broken query.
func loadIngestionSpecs(db *sql.DB, src SourceDB, controlTable string) ([]IngestionSpec, error) {
	query := fmt.Sprintf(
		`SELECT INGESTION_NAME, ACTIVE, SOURCE, SOURCE_TYPE, TARGET, TARGET_TYPE
		 FROM %s
		 WHERE ACTIVE = 1
		 ORDER BY INGESTION_NAME`,
		src.QuoteIdentifier(controlTable),
	)

	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var specs []IngestionSpec
	for rows.Next() {
		var spec IngestionSpec
		var active int
		var srcJSON, tgtJSON []byte
		if err := rows.Scan(&spec.Name, &active, &srcJSON, &spec.SourceType, &tgtJSON, &spec.TargetType); err != nil {
			return nil, err
		}
		spec.Active = active != 0

		if spec.Source, err = decodeEndpoint(srcJSON, "SOURCE", spec.Name); err != nil {
			return nil, err
		}
		if spec.Target, err = decodeEndpoint(tgtJSON, "TARGET", spec.Name); err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, rows.Err()
}

func decodeEndpoint(data []byte, field, specName string) (Endpoint, error) {
	var ep Endpoint
	if err := json.Unmarshal(data, &ep); err != nil {
		return Endpoint{}, fmt.Errorf("spec %s: decode %s: %w", specName, field, err)
	}
	if ep.Database == "" {
		return Endpoint{}, fmt.Errorf("spec %s: %s is missing required key \"database\"", specName, field)
	}
	if ep.Table == "" {
		return Endpoint{}, fmt.Errorf("spec %s: %s is missing required key \"table\"", specName, field)
	}
	return ep, nil
}
