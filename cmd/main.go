package main

import (
	_ "cube_navigator/docs"
	"cube_navigator/internal/commands"
)

// @title                       Cube Navigator API
// @version                     1.0
// @description                 Finds the cube with the robot camera and drives to a standoff pose next to it.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	commands.Execute()
}
