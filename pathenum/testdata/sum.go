package main

import "fmt"

func sum(n int) int {
	s := 0
	for i := 0; i < n; i++ {
		s += i
	}
	return s
}

func unused() {}

func main() {
	fmt.Println(sum(3))
}
