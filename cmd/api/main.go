package main

import (
	"fmt"
	"investmentproportions/cmd"
	"investmentproportions/internal/util"
	"log"
	"os"
)

func main() {
	fmt.Println(os.Getenv("commit_hash"))
	config, err := util.LoadConfig(os.Getenv("INVEST_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	apiHandler, err := cmd.InitializeDependencies(*config)
	if err != nil {
		log.Fatal(err)
	}
	err = apiHandler.StartApi(config.Api.Port)
	if err != nil {
		log.Fatal(err)
	}
}
