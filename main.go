package main

import (
	"github.com/Rakhulsr/go-storeadmin/app/cmd"
	"github.com/Rakhulsr/go-storeadmin/app/configs"
)

func main() {
	env := configs.LoadEnv()
	cmd.RunCli(env)
}
