package main

func bar() {
	defer func() {
		recover()
	}()
	panic("bar")
}
