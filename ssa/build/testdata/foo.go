package main

import "fmt"

func foo(n int) {
	for i := 0; i < n; i++ {
		fmt.Println("foo", i)
	}
}
