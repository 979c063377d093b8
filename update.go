package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/creativeprojects/go-selfupdate"
)

const releaseRepository = "andary-edu/andary"

// runUpdate replaces the running binary with the latest release
func runUpdate(args []string) int {
	checkOnly := false
	assumeYes := false
	for _, arg := range args {
		switch arg {
		case "--check":
			checkOnly = true
		case "-y", "--yes":
			assumeYes = true
		case "-h", "--help":
			printUpdateHelp()
			return 0
		}
	}

	if version == "dev" {
		fmt.Println(infoStyle.Render("Development build, nothing to update."))
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: "checksums.txt"},
	})
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}

	var latest *selfupdate.Release
	var found bool
	var detectErr error
	err = spinner.New().
		Title("Checking for updates...").
		Action(func() {
			latest, found, detectErr = updater.DetectLatest(ctx, selfupdate.ParseSlug(releaseRepository))
		}).
		Run()
	if detectErr != nil {
		fmt.Println(errorStyle.Render("Error checking for updates: " + detectErr.Error()))
		return 1
	}
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}

	if !found {
		fmt.Println(infoStyle.Render(fmt.Sprintf("No release found for %s/%s", runtime.GOOS, runtime.GOARCH)))
		return 0
	}
	if latest.LessOrEqual(version) {
		fmt.Println(successStyle.Render(fmt.Sprintf("andary %s is up to date", version)))
		return 0
	}

	fmt.Println(boxStyle.Render(fmt.Sprintf(
		"🆕 andary %s is available (you have %s)\n\n%s",
		latest.Version(), version, latest.URL,
	)))
	if checkOnly {
		return 0
	}

	if !assumeYes {
		var proceed bool
		confirm := huh.NewConfirm().
			Title("Install the update?").
			Affirmative("Yes, update").
			Negative("No").
			Value(&proceed)

		err = huh.NewForm(huh.NewGroup(confirm)).
			WithTheme(huh.ThemeCatppuccin()).
			Run()
		if err != nil || !proceed {
			fmt.Println(infoStyle.Render("Update cancelled."))
			return 0
		}
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		fmt.Println(errorStyle.Render("Error locating executable: " + err.Error()))
		return 1
	}

	var updateErr error
	err = spinner.New().
		Title(fmt.Sprintf("Downloading andary %s...", latest.Version())).
		Action(func() {
			updateErr = updater.UpdateTo(ctx, latest, exe)
		}).
		Run()
	if updateErr != nil {
		fmt.Println(errorStyle.Render("Update failed: " + updateErr.Error()))
		return 1
	}
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✅ Updated to andary %s", latest.Version())))
	return 0
}

func printUpdateHelp() {
	fmt.Println(`
USAGE:
    andary update [--check] [-y]

OPTIONS:
    --check     Only report whether a newer release exists
    -y, --yes   Install without asking`)
}
