package esi

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type PlanetRef struct {
	PlanetID      int   `json:"planet_id"`
	AsteroidBelts []int `json:"asteroid_belts,omitempty"`
	Moons         []int `json:"moons,omitempty"`
}

type SystemInfo struct {
	ConstellationID int         `json:"constellation_id"`
	Name            string      `json:"name"`
	Planets         []PlanetRef `json:"planets"`
	Position        Position    `json:"position"`
	SecurityClass   *string     `json:"security_class"`
	SecurityStatus  float64     `json:"security_status"`
	StarID          int         `json:"star_id"`
	Stargates       []int       `json:"stargates"`
	Stations        []int       `json:"stations"`
	SystemID        int         `json:"system_id"`
}

type PlanetInfo struct {
	Name     string    `json:"name"`
	PlanetID int       `json:"planet_id"`
	Position *Position `json:"position,omitempty"`
	SystemID int       `json:"system_id"`
	TypeID   int       `json:"type_id"`
}

// SystemKill is one row of the hourly kills-by-system snapshot.
type SystemKill struct {
	NPCKills  int `json:"npc_kills"`
	PodKills  int `json:"pod_kills"`
	ShipKills int `json:"ship_kills"`
	SystemID  int `json:"system_id"`
}

// SystemJump is one row of the hourly jumps-by-system snapshot.
type SystemJump struct {
	ShipJumps int `json:"ship_jumps"`
	SystemID  int `json:"system_id"`
}
