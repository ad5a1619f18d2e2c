// Package main is the entry point for the yomikata application.
package main

import (
	"github.com/samber/lo"

	"github.com/yomikata-app/yomikata/cmd"
	"github.com/yomikata-app/yomikata/config"
	"github.com/yomikata-app/yomikata/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
