// Package logsift provides an embeddable logcat line classifier.
//
// Quick start:
//
//	s, err := logsift.New(
//	    logsift.WithScope("com.example.myapp\nMyAppService"),
//	    logsift.WithIgnoreRules("LEVEL:V\nTAG:chatty"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	d := s.Classify("D/MyAppService: bound")
//	fmt.Println(d.Route) // in-scope
//
// A Sifter is safe for concurrent use. Rule and scope sets are immutable
// after New; the stack-trace continuation state is guarded per instance.
package logsift
