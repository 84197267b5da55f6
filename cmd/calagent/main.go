package main

// version is set by the build pipeline via ldflags.
var version = "dev"

func main() {
	Execute(version)
}
