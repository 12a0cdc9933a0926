package repositories

import (
	"database/sql"

	intconfig "fleet-backend/internal/config"
	"fleet-backend/internal/domain"
)

// Vehicle is a fleet asset. Pool-purpose vehicles are the only bookable ones.
type Vehicle struct {
	ID            int64  `json:"id"`
	AssetCode     string `json:"asset_code"`
	PlateNumber   string `json:"plate_number"`
	VehicleTypeID int    `json:"vehicle_type_id"`
	IsPool        bool   `json:"is_pool"`
	LocationID    int64  `json:"location_id,omitempty"`
}

type VehicleRepository struct {
	DB *sql.DB
}

func (r VehicleRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleSelect = `
	SELECT id, COALESCE(asset_code,''), COALESCE(plate_number,''),
	       COALESCE(vehicle_type_id,0), COALESCE(is_pool,0), COALESCE(location_id,0)
	FROM vehicles
`

func scanVehicle(row interface{ Scan(...any) error }) (Vehicle, error) {
	var v Vehicle
	var pool int
	if err := row.Scan(&v.ID, &v.AssetCode, &v.PlateNumber, &v.VehicleTypeID, &pool, &v.LocationID); err != nil {
		return Vehicle{}, err
	}
	v.IsPool = pool != 0
	return v, nil
}

func (r VehicleRepository) GetByID(id int64) (Vehicle, error) {
	if id <= 0 {
		return Vehicle{}, domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRow(vehicleSelect+` WHERE id=? LIMIT 1`, id)
	v, err := scanVehicle(row)
	if err == sql.ErrNoRows {
		return Vehicle{}, domain.NotFoundError{Resource: "vehicle", Err: err}
	}
	return v, err
}

// ListPool returns pool-purpose vehicles, optionally narrowed by type.
func (r VehicleRepository) ListPool(vehicleTypeID int) ([]Vehicle, error) {
	query := vehicleSelect + ` WHERE is_pool=1`
	args := []any{}
	if vehicleTypeID > 0 {
		query += ` AND vehicle_type_id=?`
		args = append(args, vehicleTypeID)
	}
	query += ` ORDER BY asset_code ASC`

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
