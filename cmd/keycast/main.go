// Command keycast renders keyboard reveal clips from a configuration file.
//
//	keycast render --config keyboard_config.json --out frames/demo
//	keycast preview --watch
//	keycast validate --config topic.yaml
package main

func main() {
	Execute()
}
