package main

func main() {
	foo(3)
	bar()
}
