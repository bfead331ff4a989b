// edamockd serves the mock EDA daemon, so the flow can run end to end
// without the licensed layout/simulation toolchain.
package main

import (
	"flag"
	"log"
	"net/http"

	"anaflow/pkg/eda/edatest"
)

func main() {
	listen := flag.String("listen", ":8461", "listen address")
	failLVS := flag.Bool("fail-lvs", false, "report every LVS run as failed")
	lvsLog := flag.String("lvs-log", "lvs_run_dir/lvs.log", "log path reported with LVS verdicts")
	flag.Parse()

	srv := edatest.NewServer()
	srv.FailLVS = *failLVS
	srv.LVSLog = *lvsLog

	log.Printf("mock EDA daemon listening on %s", *listen)
	log.Fatal(http.ListenAndServe(*listen, srv.Handler()))
}
