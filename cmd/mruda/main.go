// mruda executa o pipeline de análise e tarefas de operação pela linha de comando.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(newCLI(os.Stdout)).Execute(); err != nil {
		os.Exit(1)
	}
}
