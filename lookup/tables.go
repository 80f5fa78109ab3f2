// Package lookup holds the string→code tables used to encode categorical
// crash and party fields.
package lookup

// CodeTable maps free-text category values to small integer codes.
// Values not in Codes, including the empty string, map to Default.
type CodeTable struct {
	Name    string
	Codes   map[string]int
	Default int
}

// Code returns the code for v and whether v was found in the table.
func (t CodeTable) Code(v string) (int, bool) {
	if c, ok := t.Codes[v]; ok {
		return c, true
	}
	return t.Default, false
}

// Tables bundles every table the normalizer needs.
type Tables struct {
	Sobriety                   CodeTable
	PartyType                  CodeTable
	PrimaryCollisionFactor     CodeTable
	CollisionType              CodeTable
	VehicleDamage              CodeTable
	MovementPrecedingCollision CodeTable
}

// Default returns the canonical tables. Each call returns fresh maps so
// callers may modify them freely.
func Default() Tables {
	return Tables{
		Sobriety: CodeTable{
			Name: "Sobriety",
			Codes: map[string]int{
				"Not Applicable":                          0,
				"Had Not Been Drinking":                   1,
				"Impairment Not Known":                    2,
				"Impairment Physical":                     3,
				"Sleepy/Fatigued":                         4,
				"Had Been Drinking - Not Under Influence": 5,
				"Had Been Drinking - Impairment Unknown":  6,
				"Had Been Drinking - Under Influence":     7,
				"Under Drug Influence":                    8,
			},
			Default: 0,
		},
		PartyType: CodeTable{
			Name: "PartyType",
			Codes: map[string]int{
				"Bicycle":                0,
				"Bus - Other":            1,
				"Bus - School":           2,
				"Car":                    3,
				"Car With Trailer":       4,
				"Construction Equipment": 5,
				"Emergency Vehicle":      6,
				"Light Rail Vehicle":     7,
				"Motorcycle/Moped":       8,
				"Panel Truck":            9,
				"Pedestrian":             10,
				"Scooter Motorized":      11,
				"Scooter Non-Motorized":  12,
				"Semi Truck":             13,
				"Skateboard":             14,
				"Train":                  15,
				"Wheelchair":             16,
				"Other":                  17,
				"Unknown":                18,
			},
			Default: 18,
		},
		PrimaryCollisionFactor: CodeTable{
			Name: "PrimaryCollisionFactor",
			Codes: map[string]int{
				"Bike At Fault":          0,
				"Other Improper Driving": 1,
				"Other Than Driver":      2,
				"Pedestrian At Fault":    3,
				"Unknown":                4,
				"Violation Driver 1":     5,
				"Violation Driver 2":     6,
			},
			Default: 4,
		},
		CollisionType: CodeTable{
			Name: "CollisionType",
			Codes: map[string]int{
				"Broadside":          0,
				"Head On":            1,
				"Hit Object":         2,
				"Other":              3,
				"Overturned":         4,
				"Rear End":           5,
				"Sideswipe":          6,
				"Vehicle/Bike":       7,
				"Vehicle/Pedestrian": 8,
			},
			Default: 3,
		},
		VehicleDamage: CodeTable{
			Name: "VehicleDamage",
			Codes: map[string]int{
				"None":     0,
				"Minor":    1,
				"Moderate": 2,
				"Major":    3,
				"Totaled":  4,
				"Unknown":  5,
			},
			Default: 5,
		},
		MovementPrecedingCollision: CodeTable{
			Name: "MovementPrecedingCollision",
			Codes: map[string]int{
				"Proceeding Straight": 0,
				"Making Right Turn":   1,
				"Making Left Turn":    2,
				"Backing":             3,
				"Parking Maneuver":    4,
				"Changing Lanes":      5,
				"Overtaking/Passing":  6,
				"U-Turn":              7,
				"Stopped":             8,
				"Other":               9,
				"Unknown":             10,
			},
			Default: 10,
		},
	}
}
