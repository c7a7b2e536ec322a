package metrics

const Namespace = "library"
