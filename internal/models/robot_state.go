package models

import "time"

// RobotState is the last persisted snapshot of the robot.
type RobotState struct {
	ID          int       `json:"id"`
	X           float64   `json:"x_mm"`
	Y           float64   `json:"y_mm"`
	HeadingDeg  float64   `json:"heading_deg"`
	IsMoving    bool      `json:"is_moving"`
	LastCommand string    `json:"last_command,omitempty"`
	CubeKnown   bool      `json:"cube_known"` // cube fields are meaningless until set
	CubeX       float64   `json:"cube_x_mm,omitempty"`
	CubeY       float64   `json:"cube_y_mm,omitempty"`
	CubeHeading float64   `json:"cube_heading_deg,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}
